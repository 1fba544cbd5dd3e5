package wheel

import (
	"slices"
	"strings"
)

// header is one "Key: value" field of a METADATA file, continuation lines included.
type header struct {
	key   string
	lines []string
}

func (h header) value() string {
	first := h.lines[0]
	_, v, _ := strings.Cut(first, ":")
	return strings.TrimSpace(v)
}

// metadata is a parsed METADATA document: RFC 822 style headers and an optional body.
type metadata struct {
	headers []header
	body    string
}

func parseMetadata(data string) metadata {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	head, body, hasBody := strings.Cut(data, "\n\n")

	var m metadata
	for _, line := range strings.Split(head, "\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(m.headers) > 0 {
			last := &m.headers[len(m.headers)-1]
			last.lines = append(last.lines, line)
			continue
		}
		key, _, _ := strings.Cut(line, ":")
		m.headers = append(m.headers, header{key: strings.TrimSpace(key), lines: []string{line}})
	}
	if hasBody {
		m.body = body
	}
	return m
}

// get returns the first value of key.
func (m metadata) get(key string) string {
	for _, h := range m.headers {
		if strings.EqualFold(h.key, key) {
			return h.value()
		}
	}
	return ""
}

// all returns every value of key in document order.
func (m metadata) all(key string) []string {
	var out []string
	for _, h := range m.headers {
		if strings.EqualFold(h.key, key) {
			out = append(out, h.value())
		}
	}
	return out
}

// replace drops every Provides-Extra and Requires-Dist header and inserts the given
// values where the first of them stood, or after the last header.
func (m metadata) replace(providesExtra, requiresDist []string) metadata {
	extras := m.all("Provides-Extra")
	for _, x := range providesExtra {
		if !slices.Contains(extras, x) {
			extras = append(extras, x)
		}
	}

	var added []header
	for _, x := range extras {
		added = append(added, header{key: "Provides-Extra", lines: []string{"Provides-Extra: " + x}})
	}
	for _, r := range requiresDist {
		added = append(added, header{key: "Requires-Dist", lines: []string{"Requires-Dist: " + r}})
	}

	out := metadata{body: m.body}
	inserted := false
	for _, h := range m.headers {
		if strings.EqualFold(h.key, "Provides-Extra") || strings.EqualFold(h.key, "Requires-Dist") {
			if !inserted {
				out.headers = append(out.headers, added...)
				inserted = true
			}
			continue
		}
		out.headers = append(out.headers, h)
	}
	if !inserted {
		out.headers = append(out.headers, added...)
	}
	return out
}

func (m metadata) String() string {
	var b strings.Builder
	for _, h := range m.headers {
		for _, l := range h.lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	if m.body != "" {
		b.WriteByte('\n')
		b.WriteString(m.body)
	}
	return b.String()
}
