package nginx

import (
	"strings"
)

// DirectiveMap is an ordered mapping of directive name to trimmed value,
// scoped to one block. Duplicate names keep only the last occurrence
// (a known simplification: nginx itself allows repeated directives such
// as multiple listen lines).
type DirectiveMap struct {
	order  []string
	values map[string]string
}

// NewDirectiveMap returns an empty DirectiveMap.
func NewDirectiveMap() *DirectiveMap {
	return &DirectiveMap{values: make(map[string]string)}
}

// Set stores a directive, overwriting any earlier occurrence but
// keeping its original position in the order.
func (m *DirectiveMap) Set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.order = append(m.order, name)
	}
	m.values[name] = value
}

// Get returns the directive value and whether it was present.
func (m *DirectiveMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// GetDefault returns the directive value or def when absent.
func (m *DirectiveMap) GetDefault(name, def string) string {
	if v, ok := m.values[name]; ok {
		return v
	}
	return def
}

// Has reports whether the directive is present.
func (m *DirectiveMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Len returns the number of distinct directives.
func (m *DirectiveMap) Len() int {
	return len(m.order)
}

// Names returns the directive names in first-seen order.
func (m *DirectiveMap) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// ReadDirectives extracts "name value;" leaf directives from a block
// body. The caller is expected to have removed nested location blocks
// first (see StripBlocks); comment lines and blank lines are skipped
// here, as is the leading token naming the block itself.
func ReadDirectives(body string) *DirectiveMap {
	m := NewDirectiveMap()

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// One physical line can carry several directives.
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || strings.HasPrefix(stmt, "#") {
				continue
			}
			// A dangling "location /api {" remnant or the block's own
			// "server {" opener is not a leaf directive.
			if strings.ContainsAny(stmt, "{}") {
				continue
			}

			name, value, ok := splitDirective(stmt)
			if !ok {
				continue
			}
			if name == "server" {
				continue
			}
			m.Set(name, value)
		}
	}

	return m
}

// StripBlocks removes the literal text of the given blocks from body by
// exact substring removal, so their interior directives do not leak
// into the enclosing block's directive map.
func StripBlocks(body string, blocks []Block) string {
	for _, b := range blocks {
		full := b.Text(body)
		if full == "" {
			// Reconstruct when spans were computed against other text.
			full = b.Keyword + " " + b.Selector + " {" + b.Body + "}"
		}
		body = strings.Replace(body, full, "", 1)
	}
	return body
}

// ExtractDirective pulls a single named directive value out of raw block
// text, used for reaching into location bodies without building a full
// map.
func ExtractDirective(body, name string) (string, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			n, v, ok := splitDirective(stmt)
			if ok && n == name {
				return v, true
			}
		}
	}
	return "", false
}

func splitDirective(stmt string) (name, value string, ok bool) {
	fields := strings.Fields(stmt)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.TrimSpace(strings.Join(fields[1:], " ")), true
}

// trimQuotes removes one layer of surrounding single or double quotes.
func trimQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
