package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Marker is a parsed PEP 508 environment marker expression.
type Marker interface {
	// Evaluate reports whether the marker holds in env.
	// Comparisons against variables missing from env hold.
	Evaluate(env MarkerEnvironment) bool
	String() string
}

// MarkerEnvironment carries the values marker variables are evaluated against.
type MarkerEnvironment struct {
	// Values maps marker variable names (python_version, sys_platform, ...) to values.
	Values map[string]string
	// Extras are the active extras; `extra == "x"` holds when x is listed.
	Extras []string
}

// WithExtras returns a copy of env with the given active extras.
func (env MarkerEnvironment) WithExtras(extras []string) MarkerEnvironment {
	return MarkerEnvironment{Values: env.Values, Extras: extras}
}

var versionMarkerVars = map[string]bool{
	"python_version":         true,
	"python_full_version":    true,
	"implementation_version": true,
}

// ParseMarker parses a PEP 508 marker expression. An empty string yields a marker that always holds.
func ParseMarker(s string) (Marker, error) {
	if strings.TrimSpace(s) == "" {
		return markerAnd{}, nil
	}
	toks, err := lexMarker(s)
	if err != nil {
		return nil, zerr.With(err, "marker", s)
	}
	p := &markerParser{toks: toks}
	m, err := p.parseOr()
	if err != nil {
		return nil, zerr.With(err, "marker", s)
	}
	if p.pos != len(p.toks) {
		return nil, zerr.With(zerr.Wrap(ErrInvalidMarker, "unexpected token '"+p.toks[p.pos].text+"'"), "marker", s)
	}
	return m, nil
}

// MarkerReferences reports whether the marker expression mentions the named variable.
func MarkerReferences(m Marker, variable string) bool {
	switch t := m.(type) {
	case markerAnd:
		for _, c := range t {
			if MarkerReferences(c, variable) {
				return true
			}
		}
	case markerOr:
		for _, c := range t {
			if MarkerReferences(c, variable) {
				return true
			}
		}
	case markerCompare:
		return (t.left.isVar && t.left.value == variable) || (t.right.isVar && t.right.value == variable)
	}
	return false
}

// WithoutVariables returns m with every comparison on the named variables removed.
// The result may be an always-true marker.
func WithoutVariables(m Marker, variables ...string) Marker {
	drop := func(c markerCompare) bool {
		for _, v := range variables {
			if (c.left.isVar && c.left.value == v) || (c.right.isVar && c.right.value == v) {
				return true
			}
		}
		return false
	}
	switch t := m.(type) {
	case markerAnd:
		var out markerAnd
		for _, c := range t {
			c = WithoutVariables(c, variables...)
			if !isTrivial(c) {
				out = append(out, c)
			}
		}
		return simplifyAnd(out)
	case markerOr:
		var out markerOr
		for _, c := range t {
			c = WithoutVariables(c, variables...)
			if isTrivial(c) {
				return markerAnd{}
			}
			out = append(out, c)
		}
		if len(out) == 1 {
			return out[0]
		}
		return out
	case markerCompare:
		if drop(t) {
			return markerAnd{}
		}
	}
	return m
}

// PythonMarker renders a Python version constraint as an equivalent marker expression.
func PythonMarker(c Constraint) string {
	if c.IsAny() {
		return ""
	}
	alts := make([]string, 0, len(c.intervals))
	for _, iv := range c.intervals {
		var clauses []string
		if iv.min != nil && iv.max != nil && iv.min.inclusive && iv.max.inclusive && iv.min.version.Equal(iv.max.version) {
			clauses = append(clauses, pythonClause("==", iv.min.version))
		} else {
			if iv.min != nil {
				op := ">"
				if iv.min.inclusive {
					op = ">="
				}
				clauses = append(clauses, pythonClause(op, iv.min.version))
			}
			if iv.max != nil {
				op := "<"
				if iv.max.inclusive {
					op = "<="
				}
				clauses = append(clauses, pythonClause(op, iv.max.version))
			}
		}
		alts = append(alts, strings.Join(clauses, " and "))
	}
	if len(alts) == 1 {
		return alts[0]
	}
	for i, a := range alts {
		if strings.Contains(a, " and ") {
			alts[i] = "(" + a + ")"
		}
	}
	return strings.Join(alts, " or ")
}

func pythonClause(op string, v Version) string {
	variable := "python_version"
	if _, parts, ok := releaseSegments(v.String()); ok && len(parts) > 2 {
		variable = "python_full_version"
	}
	return variable + " " + op + " \"" + v.String() + "\""
}

func isTrivial(m Marker) bool {
	a, ok := m.(markerAnd)
	return ok && len(a) == 0
}

func simplifyAnd(a markerAnd) Marker {
	if len(a) == 1 {
		return a[0]
	}
	return a
}

type markerAnd []Marker

func (m markerAnd) Evaluate(env MarkerEnvironment) bool {
	for _, c := range m {
		if !c.Evaluate(env) {
			return false
		}
	}
	return true
}

func (m markerAnd) String() string {
	parts := make([]string, 0, len(m))
	for _, c := range m {
		s := c.String()
		if _, ok := c.(markerOr); ok {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " and ")
}

type markerOr []Marker

func (m markerOr) Evaluate(env MarkerEnvironment) bool {
	for _, c := range m {
		if c.Evaluate(env) {
			return true
		}
	}
	return false
}

func (m markerOr) String() string {
	parts := make([]string, 0, len(m))
	for _, c := range m {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " or ")
}

type markerOperand struct {
	value string
	isVar bool
}

func (o markerOperand) String() string {
	if o.isVar {
		return o.value
	}
	return "\"" + o.value + "\""
}

type markerCompare struct {
	left  markerOperand
	op    string
	right markerOperand
}

func (m markerCompare) String() string {
	return m.left.String() + " " + m.op + " " + m.right.String()
}

func (m markerCompare) Evaluate(env MarkerEnvironment) bool {
	if m.left.isVar && m.left.value == "extra" && !m.right.isVar {
		return evaluateExtra(m.op, m.right.value, env.Extras)
	}
	if m.right.isVar && m.right.value == "extra" && !m.left.isVar {
		return evaluateExtra(m.op, m.left.value, env.Extras)
	}

	lhs, ok := resolveOperand(m.left, env)
	if !ok {
		return true
	}
	rhs, ok := resolveOperand(m.right, env)
	if !ok {
		return true
	}

	switch m.op {
	case "in":
		return strings.Contains(rhs, lhs)
	case "not in":
		return !strings.Contains(rhs, lhs)
	}

	if (m.left.isVar && versionMarkerVars[m.left.value]) || (m.right.isVar && versionMarkerVars[m.right.value]) {
		if result, ok := compareVersions(lhs, m.op, rhs); ok {
			return result
		}
	}
	return compareStrings(lhs, m.op, rhs)
}

func resolveOperand(o markerOperand, env MarkerEnvironment) (string, bool) {
	if !o.isVar {
		return o.value, true
	}
	v, ok := env.Values[o.value]
	return v, ok
}

func evaluateExtra(op, value string, extras []string) bool {
	want := CanonicalName(value)
	found := false
	for _, e := range extras {
		if CanonicalName(e) == want {
			found = true
			break
		}
	}
	switch op {
	case "==", "===", "in":
		return found
	case "!=", "not in":
		return !found
	default:
		return false
	}
}

// compareVersions evaluates "lhs op rhs" as a version comparison; the variable
// may be on either side.
func compareVersions(lhs, op, rhs string) (bool, bool) {
	subject, err := ParseVersion(lhs)
	if err != nil {
		return false, false
	}
	c, err := ParseConstraint(op + rhs)
	if err != nil {
		return false, false
	}
	return c.Contains(subject), true
}

func compareStrings(lhs, op, rhs string) bool {
	switch op {
	case "==", "===":
		return lhs == rhs
	case "!=":
		return lhs != rhs
	case "<":
		return lhs < rhs
	case "<=":
		return lhs <= rhs
	case ">":
		return lhs > rhs
	case ">=":
		return lhs >= rhs
	default:
		return false
	}
}

type markerToken struct {
	kind string // ident, string, op, lparen, rparen
	text string
}

func lexMarker(s string) ([]markerToken, error) {
	var toks []markerToken
	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case ch == '(':
			toks = append(toks, markerToken{kind: "lparen", text: "("})
			i++
		case ch == ')':
			toks = append(toks, markerToken{kind: "rparen", text: ")"})
			i++
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(s[i+1:], ch)
			if end < 0 {
				return nil, zerr.Wrap(ErrInvalidMarker, "unterminated string")
			}
			toks = append(toks, markerToken{kind: "string", text: s[i+1 : i+1+end]})
			i += end + 2
		case strings.IndexByte("<>=!~", ch) >= 0:
			start := i
			for i < len(s) && strings.IndexByte("<>=!~", s[i]) >= 0 {
				i++
			}
			toks = append(toks, markerToken{kind: "op", text: s[start:i]})
		case isWordRune(rune(ch)):
			start := i
			for i < len(s) && (isWordRune(rune(s[i])) || s[i] == '.') {
				i++
			}
			toks = append(toks, markerToken{kind: "ident", text: s[start:i]})
		default:
			return nil, zerr.Wrap(ErrInvalidMarker, "unexpected character '"+string(ch)+"'")
		}
	}
	return toks, nil
}

type markerParser struct {
	toks []markerToken
	pos  int
}

func (p *markerParser) peek() (markerToken, bool) {
	if p.pos >= len(p.toks) {
		return markerToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *markerParser) parseOr() (Marker, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	out := markerOr{first}
	for {
		t, ok := p.peek()
		if !ok || t.kind != "ident" || t.text != "or" {
			break
		}
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

func (p *markerParser) parseAnd() (Marker, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	out := markerAnd{first}
	for {
		t, ok := p.peek()
		if !ok || t.kind != "ident" || t.text != "and" {
			break
		}
		p.pos++
		next, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return simplifyAnd(out), nil
}

func (p *markerParser) parseExpr() (Marker, error) {
	t, ok := p.peek()
	if !ok {
		return nil, zerr.Wrap(ErrInvalidMarker, "unexpected end of marker")
	}
	if t.kind == "lparen" {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if t, ok := p.peek(); !ok || t.kind != "rparen" {
			return nil, zerr.Wrap(ErrInvalidMarker, "missing ')'")
		}
		p.pos++
		return inner, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, err := p.parseOperator()
	if err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return markerCompare{left: left, op: op, right: right}, nil
}

func (p *markerParser) parseOperand() (markerOperand, error) {
	t, ok := p.peek()
	if !ok {
		return markerOperand{}, zerr.Wrap(ErrInvalidMarker, "expected a marker variable or string")
	}
	switch t.kind {
	case "string":
		p.pos++
		return markerOperand{value: t.text}, nil
	case "ident":
		p.pos++
		return markerOperand{value: t.text, isVar: true}, nil
	default:
		return markerOperand{}, zerr.Wrap(ErrInvalidMarker, "expected a marker variable or string, got '"+t.text+"'")
	}
}

func (p *markerParser) parseOperator() (string, error) {
	t, ok := p.peek()
	if !ok {
		return "", zerr.Wrap(ErrInvalidMarker, "expected an operator")
	}
	switch {
	case t.kind == "op":
		switch t.text {
		case "<", "<=", ">", ">=", "==", "!=", "~=", "===":
			p.pos++
			return t.text, nil
		}
	case t.kind == "ident" && t.text == "in":
		p.pos++
		return "in", nil
	case t.kind == "ident" && t.text == "not":
		p.pos++
		if next, ok := p.peek(); ok && next.kind == "ident" && next.text == "in" {
			p.pos++
			return "not in", nil
		}
	}
	return "", zerr.Wrap(ErrInvalidMarker, "invalid operator '"+t.text+"'")
}
