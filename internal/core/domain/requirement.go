package domain

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// DirectReference locates a distribution outside of a package index.
type DirectReference struct {
	// Kind is one of "git", "url", "file" or "directory".
	Kind         string
	URL          string
	Reference    string
	Subdirectory string
}

// String renders the reference as a PEP 508 URL.
func (d DirectReference) String() string {
	switch d.Kind {
	case "git":
		s := d.URL
		if !strings.HasPrefix(s, "git+") {
			s = "git+" + s
		}
		if d.Reference != "" {
			s += "@" + d.Reference
		}
		if d.Subdirectory != "" {
			s += "#subdirectory=" + d.Subdirectory
		}
		return s
	case "file", "directory":
		if strings.Contains(d.URL, "://") {
			return d.URL
		}
		return "file://" + d.URL
	default:
		return d.URL
	}
}

// Requirement is a single dependency on another distribution.
type Requirement struct {
	Name       string
	Constraint Constraint
	// Extras are the extras requested from the dependency, as in "requests[socks]".
	Extras []string
	// Markers is the environment marker expression, without extra tagging.
	Markers string
	// InExtras lists the project extras this requirement belongs to.
	InExtras []string
	Optional bool
	Direct   *DirectReference
}

// CanonicalName returns the normalized name of the required distribution.
func (r Requirement) CanonicalName() string {
	return CanonicalName(r.Name)
}

// String renders r the way it appears in a Requires-Dist header, e.g.
// `requests[socks] (>=2.0,<3.0) ; python_version >= "3.8" and extra == "net"`.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	switch {
	case r.Direct != nil:
		b.WriteString(" @ " + r.Direct.String())
	case !r.Constraint.IsAny():
		b.WriteString(" (" + r.Constraint.String() + ")")
	}
	if m := r.markerExpression(); m != "" {
		b.WriteString(" ; " + m)
	}
	return b.String()
}

func (r Requirement) markerExpression() string {
	m := strings.TrimSpace(r.Markers)
	if len(r.InExtras) == 0 {
		return m
	}
	clauses := make([]string, 0, len(r.InExtras))
	for _, e := range r.InExtras {
		clauses = append(clauses, fmt.Sprintf("extra == %q", e))
	}
	extra := strings.Join(clauses, " or ")
	if m == "" {
		return extra
	}
	if len(clauses) > 1 {
		extra = "(" + extra + ")"
	}
	if strings.Contains(m, " or ") {
		m = "(" + m + ")"
	}
	return m + " and " + extra
}

// PinnedRequirement returns the requirement pinning p to its locked version.
func PinnedRequirement(p LockedPackage, inExtras []string) Requirement {
	r := Requirement{
		Name:     p.Name,
		InExtras: slices.Clone(inExtras),
	}
	if p.Source != nil && p.Source.IsDirect() {
		ref := p.Source.DirectReference()
		r.Direct = &ref
		return r
	}
	if v, err := ParseVersion(p.Version); err == nil {
		r.Constraint = ExactConstraint(v)
	}
	return r
}

// ParseRequiresDist parses a Requires-Dist value such as "nemoize (>=0.1.0,<0.2.0)",
// "six>=1.10", "pkg @ https://host/pkg.whl ; python_version < '3.8'" or a bare name.
func ParseRequiresDist(entry string) (Requirement, error) {
	fail := func(reason string) (Requirement, error) {
		msg := fmt.Sprintf("Could not parse Requires Dist package [%s].  Please submit an Issue!", entry)
		return Requirement{}, zerr.With(zerr.Wrap(ErrMalformedRequiresDist, msg), "reason", reason)
	}

	head, markers := splitMarkers(entry)
	head = strings.TrimSpace(head)

	i := 0
	for i < len(head) && (isWordRune(rune(head[i])) || head[i] == '-' || head[i] == '.') {
		i++
	}
	if i == 0 {
		return fail("missing distribution name")
	}
	req := Requirement{Name: head[:i], Markers: strings.TrimSpace(markers)}
	rest := strings.TrimSpace(head[i:])

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return fail("unterminated extras")
		}
		for _, e := range strings.Split(rest[1:end], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	switch {
	case rest == "":
		req.Constraint = AnyConstraint()
	case strings.HasPrefix(rest, "@"):
		url := strings.TrimSpace(rest[1:])
		if url == "" {
			return fail("missing URL")
		}
		req.Direct = &DirectReference{Kind: "url", URL: url}
	default:
		if strings.HasPrefix(rest, "(") {
			if !strings.HasSuffix(rest, ")") {
				return fail("unbalanced parentheses")
			}
			rest = strings.TrimSpace(rest[1 : len(rest)-1])
		}
		c, err := ParseConstraint(rest)
		if err != nil {
			return fail(err.Error())
		}
		req.Constraint = c
	}

	if req.Markers != "" {
		if _, err := ParseMarker(req.Markers); err != nil {
			return fail(err.Error())
		}
	}
	return req, nil
}

// splitMarkers separates "head ; markers". For URL requirements the separator must be
// preceded by whitespace, since URLs may contain ';'.
func splitMarkers(entry string) (string, string) {
	if strings.Contains(entry, "@") {
		if i := strings.Index(entry, " ;"); i >= 0 {
			return entry[:i], entry[i+2:]
		}
		return entry, ""
	}
	if i := strings.IndexByte(entry, ';'); i >= 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, ""
}
