package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Constraint is a set of versions, stored as a sorted union of disjoint intervals.
// The zero value matches every version.
type Constraint struct {
	intervals []interval
	empty     bool
}

type endpoint struct {
	version   Version
	inclusive bool
}

// interval is a contiguous range of versions; a nil endpoint is unbounded.
type interval struct {
	min *endpoint
	max *endpoint
}

// AnyConstraint returns the constraint matching every version ("*").
func AnyConstraint() Constraint {
	return Constraint{}
}

// ExactConstraint returns the constraint matching exactly v ("==v").
func ExactConstraint(v Version) Constraint {
	return Constraint{intervals: []interval{{
		min: &endpoint{version: v, inclusive: true},
		max: &endpoint{version: v, inclusive: true},
	}}}
}

// ParseConstraint parses a Poetry or PEP 440 constraint expression.
//
// Supported forms: "*", "1.2.3", "==1.2.*", "!=1.5", ">=1.0,<2.0", ">=1.0 <2.0",
// "^1.2", "~1.2", "~=1.2", and unions joined with "||".
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return AnyConstraint(), nil
	}

	var union []interval
	for _, alt := range splitUnion(s) {
		c, err := parseConjunction(alt)
		if err != nil {
			return Constraint{}, zerr.With(err, "constraint", s)
		}
		union = append(union, c.ranges()...)
	}
	return newConstraint(union), nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsAny reports whether c matches every version.
func (c Constraint) IsAny() bool {
	return !c.empty && len(c.intervals) == 0
}

// IsEmpty reports whether c matches no version at all.
func (c Constraint) IsEmpty() bool {
	return c.empty
}

// Exact returns the single version c pins, if any.
func (c Constraint) Exact() (Version, bool) {
	if len(c.intervals) != 1 {
		return Version{}, false
	}
	iv := c.intervals[0]
	if iv.min == nil || iv.max == nil || !iv.min.inclusive || !iv.max.inclusive {
		return Version{}, false
	}
	if !iv.min.version.Equal(iv.max.version) {
		return Version{}, false
	}
	return iv.min.version, true
}

// Contains reports whether v is a member of c.
func (c Constraint) Contains(v Version) bool {
	for _, iv := range c.ranges() {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

// Allows reports whether every version matched by o is also matched by c.
func (c Constraint) Allows(o Constraint) bool {
	mine := c.ranges()
	for _, theirs := range o.ranges() {
		covered := false
		for _, iv := range mine {
			if cmpLower(iv.min, theirs.min) <= 0 && cmpUpper(iv.max, theirs.max) >= 0 {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// Intersect returns the versions matched by both c and o.
func (c Constraint) Intersect(o Constraint) Constraint {
	var out []interval
	for _, a := range c.ranges() {
		for _, b := range o.ranges() {
			if iv, ok := intersectInterval(a, b); ok {
				out = append(out, iv)
			}
		}
	}
	return newConstraint(out)
}

// Union returns the versions matched by c or o.
func (c Constraint) Union(o Constraint) Constraint {
	return newConstraint(append(slices.Clone(c.ranges()), o.ranges()...))
}

// String renders c in PEP 440 form, e.g. ">=1.4.2,<2.0.0" or ">=1.0,!=1.5".
func (c Constraint) String() string {
	if c.IsAny() {
		return "*"
	}
	if c.empty {
		return "<empty>"
	}
	if s, ok := c.renderWithExclusions(); ok {
		return s
	}
	parts := make([]string, 0, len(c.intervals))
	for _, iv := range c.intervals {
		parts = append(parts, iv.String())
	}
	return strings.Join(parts, " || ")
}

// renderWithExclusions renders unions whose gaps are single versions as "!=" clauses.
func (c Constraint) renderWithExclusions() (string, bool) {
	if len(c.intervals) == 1 {
		return c.intervals[0].String(), true
	}
	var clauses []string
	first, last := c.intervals[0], c.intervals[len(c.intervals)-1]
	if first.min != nil {
		clauses = append(clauses, lowerClause(first.min))
	}
	for i := 1; i < len(c.intervals); i++ {
		prev, next := c.intervals[i-1], c.intervals[i]
		if prev.max == nil || next.min == nil || prev.max.inclusive || next.min.inclusive ||
			!prev.max.version.Equal(next.min.version) {
			return "", false
		}
		clauses = append(clauses, "!="+prev.max.version.String())
	}
	if last.max != nil {
		clauses = append(clauses, upperClause(last.max))
	}
	return strings.Join(clauses, ","), true
}

func (c Constraint) ranges() []interval {
	if c.empty {
		return nil
	}
	if len(c.intervals) == 0 {
		return []interval{{}}
	}
	return c.intervals
}

func (iv interval) String() string {
	if iv.min != nil && iv.max != nil && iv.min.inclusive && iv.max.inclusive &&
		iv.min.version.Equal(iv.max.version) {
		return "==" + iv.min.version.String()
	}
	var parts []string
	if iv.min != nil {
		parts = append(parts, lowerClause(iv.min))
	}
	if iv.max != nil {
		parts = append(parts, upperClause(iv.max))
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ",")
}

func lowerClause(e *endpoint) string {
	if e.inclusive {
		return ">=" + e.version.String()
	}
	return ">" + e.version.String()
}

func upperClause(e *endpoint) string {
	if e.inclusive {
		return "<=" + e.version.String()
	}
	return "<" + e.version.String()
}

func (iv interval) contains(v Version) bool {
	if iv.min != nil {
		c := v.Compare(iv.min.version)
		if c < 0 || (c == 0 && !iv.min.inclusive) {
			return false
		}
	}
	if iv.max != nil {
		c := v.Compare(iv.max.version)
		if c > 0 || (c == 0 && !iv.max.inclusive) {
			return false
		}
	}
	return true
}

func (iv interval) isEmpty() bool {
	if iv.min == nil || iv.max == nil {
		return false
	}
	c := iv.min.version.Compare(iv.max.version)
	return c > 0 || (c == 0 && !(iv.min.inclusive && iv.max.inclusive))
}

// cmpLower orders lower bounds; an unbounded lower bound sorts first.
func cmpLower(a, b *endpoint) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := a.version.Compare(b.version); c != 0 {
		return c
	}
	switch {
	case a.inclusive == b.inclusive:
		return 0
	case a.inclusive:
		return -1
	default:
		return 1
	}
}

// cmpUpper orders upper bounds; an unbounded upper bound sorts last.
func cmpUpper(a, b *endpoint) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if c := a.version.Compare(b.version); c != 0 {
		return c
	}
	switch {
	case a.inclusive == b.inclusive:
		return 0
	case a.inclusive:
		return 1
	default:
		return -1
	}
}

func intersectInterval(a, b interval) (interval, bool) {
	out := interval{min: a.min, max: a.max}
	if cmpLower(b.min, a.min) > 0 {
		out.min = b.min
	}
	if cmpUpper(b.max, a.max) < 0 {
		out.max = b.max
	}
	return out, !out.isEmpty()
}

// connects reports whether next starts inside or right at the end of cur.
func connects(cur, next interval) bool {
	if cur.max == nil || next.min == nil {
		return true
	}
	c := cur.max.version.Compare(next.min.version)
	if c != 0 {
		return c > 0
	}
	return cur.max.inclusive || next.min.inclusive
}

func newConstraint(ivs []interval) Constraint {
	kept := make([]interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.isEmpty() {
			kept = append(kept, iv)
		}
	}
	if len(kept) == 0 {
		return Constraint{empty: true}
	}
	slices.SortStableFunc(kept, func(a, b interval) int {
		return cmpLower(a.min, b.min)
	})

	merged := []interval{kept[0]}
	for _, next := range kept[1:] {
		cur := &merged[len(merged)-1]
		if connects(*cur, next) {
			if cmpUpper(next.max, cur.max) > 0 {
				cur.max = next.max
			}
			continue
		}
		merged = append(merged, next)
	}
	if len(merged) == 1 && merged[0].min == nil && merged[0].max == nil {
		return AnyConstraint()
	}
	return Constraint{intervals: merged}
}

func splitUnion(s string) []string {
	var alts []string
	for _, part := range strings.Split(s, "||") {
		for _, p := range strings.Split(part, "|") {
			if p = strings.TrimSpace(p); p != "" {
				alts = append(alts, p)
			}
		}
	}
	return alts
}

func parseConjunction(s string) (Constraint, error) {
	result := AnyConstraint()
	clauses, err := tokenizeClauses(s)
	if err != nil {
		return Constraint{}, err
	}
	for _, cl := range clauses {
		ivs, err := clauseIntervals(cl.op, cl.version)
		if err != nil {
			return Constraint{}, err
		}
		result = result.Intersect(newConstraint(ivs))
	}
	return result, nil
}

type clause struct {
	op      string
	version string
}

func isOperatorByte(b byte) bool {
	return strings.IndexByte("<>=!~^", b) >= 0
}

// tokenizeClauses splits "a,b c" into operator/version pairs. Clauses are separated by
// commas or whitespace; whitespace between an operator and its version is allowed.
func tokenizeClauses(s string) ([]clause, error) {
	var out []clause
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			break
		}
		start := i
		for i < len(s) && isOperatorByte(s[i]) {
			i++
		}
		op := s[start:i]
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		vstart := i
		for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != ',' {
			i++
		}
		ver := s[vstart:i]
		if ver == "" {
			return nil, zerr.Wrap(ErrInvalidConstraint, "missing version after '"+op+"'")
		}
		out = append(out, clause{op: op, version: ver})
	}
	if len(out) == 0 {
		return nil, zerr.Wrap(ErrInvalidConstraint, "empty constraint")
	}
	return out, nil
}

func clauseIntervals(op, ver string) ([]interval, error) {
	if ver == "*" {
		if op == "" || op == "==" || op == ">=" {
			return []interval{{}}, nil
		}
		return nil, zerr.Wrap(ErrInvalidConstraint, "wildcard not allowed with '"+op+"'")
	}

	wildcard := strings.HasSuffix(ver, ".*")
	base := strings.TrimSuffix(ver, ".*")
	v, err := ParseVersion(base)
	if err != nil {
		return nil, err
	}
	epoch, parts, hasRelease := releaseSegments(base)

	switch op {
	case "", "==", "===":
		if wildcard {
			return wildcardInterval(v, epoch, parts)
		}
		return ExactConstraint(v).intervals, nil
	case "!=":
		if wildcard {
			w, err := wildcardInterval(v, epoch, parts)
			if err != nil {
				return nil, err
			}
			return []interval{
				{max: &endpoint{version: w[0].min.version}},
				{min: &endpoint{version: w[0].max.version, inclusive: true}},
			}, nil
		}
		return []interval{
			{max: &endpoint{version: v}},
			{min: &endpoint{version: v}},
		}, nil
	case ">=":
		return []interval{{min: &endpoint{version: v, inclusive: true}}}, nil
	case ">":
		return []interval{{min: &endpoint{version: v}}}, nil
	case "<=":
		return []interval{{max: &endpoint{version: v, inclusive: true}}}, nil
	case "<":
		return []interval{{max: &endpoint{version: v}}}, nil
	case "~=":
		if !hasRelease || len(parts) < 2 {
			return nil, zerr.Wrap(ErrInvalidConstraint, "'~=' requires at least two release segments")
		}
		return boundedFrom(v, bumpRelease(epoch, parts, len(parts)-2))
	case "~":
		if !hasRelease {
			return nil, zerr.Wrap(ErrInvalidConstraint, "invalid tilde constraint")
		}
		idx := 1
		if len(parts) == 1 {
			idx = 0
		}
		return boundedFrom(v, bumpRelease(epoch, parts, idx))
	case "^":
		if !hasRelease {
			return nil, zerr.Wrap(ErrInvalidConstraint, "invalid caret constraint")
		}
		idx := len(parts) - 1
		for i, p := range parts {
			if p != 0 {
				idx = i
				break
			}
		}
		return boundedFrom(v, bumpRelease(epoch, parts, idx))
	default:
		return nil, zerr.Wrap(ErrInvalidConstraint, "unknown operator '"+op+"'")
	}
}

func wildcardInterval(v Version, epoch string, parts []int) ([]interval, error) {
	if len(parts) == 0 {
		return nil, zerr.Wrap(ErrInvalidConstraint, "invalid wildcard")
	}
	return boundedFrom(v, bumpRelease(epoch, parts, len(parts)-1))
}

func boundedFrom(lower Version, upper string) ([]interval, error) {
	u, err := ParseVersion(upper)
	if err != nil {
		return nil, err
	}
	return []interval{{
		min: &endpoint{version: lower, inclusive: true},
		max: &endpoint{version: u},
	}}, nil
}
