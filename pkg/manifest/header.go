package manifest

import (
	"maps"
	"strings"
	"unicode"
)

// VersionAttribute is the attribute key whose value becomes [Capability.Version].
const VersionAttribute = "version"

// Capability is one name declared in an Export-Package or Import-Package header.
//
// Exported capabilities usually carry a concrete version; imported ones carry a
// range or a floor (see package version). An empty Version means no version
// was declared and acts as a wildcard.
type Capability struct {
	Name       string            `json:"name"`
	Version    string            `json:"version,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"` // key=value clauses, quotes stripped
	Directives map[string]string `json:"directives,omitempty"` // key:=value clauses, quotes stripped
}

// String returns the capability as "name" or "name;version=v".
func (c Capability) String() string {
	if c.Version == "" {
		return c.Name
	}
	return c.Name + ";" + VersionAttribute + "=" + c.Version
}

// ParseHeader tokenizes a capability header into its declared capabilities.
//
// Fields are separated by ',' and clauses within a field by ';'. Quoted text
// never splits, and neither does the comma of a bracketed version range. An
// unclosed bracket does not swallow the rest of the header: a comma splits
// when no closing bracket follows before the next separator, and ';' always
// splits outside quotes.
//
// Every clause without an '=' is a capability name. All names of a field share
// that field's attributes and directives, but a "version" attribute only sets
// the Version of the name right before it: "a;b;version=2" gives a no version
// and b version 2. The first version after a name wins.
//
// Names must look like qualified identifiers (letters, digits, '_', '$' and
// '.', not starting with a digit). An invalid name is dropped on its own and
// parsing continues; empty fields are ignored.
func ParseHeader(header string) []Capability {
	var caps []Capability
	p := headerParser{src: header}
	for {
		f, more := p.nextField()
		caps = append(caps, f.capabilities()...)
		if !more {
			return caps
		}
	}
}

// headerParser is a character state machine over a header value.
type headerParser struct {
	src string
	pos int
}

// field accumulates the clauses of one comma-separated field.
type field struct {
	names      []string
	versions   []string // parallel to names
	attributes map[string]string
	directives map[string]string
}

// nextField consumes clauses up to the next top-level ',' or the end of input.
// It reports whether more input follows.
func (p *headerParser) nextField() (field, bool) {
	var f field
	for {
		clause, sep := p.nextClause()
		f.add(clause)
		switch sep {
		case ',':
			return f, true
		case 0:
			return f, false
		}
	}
}

// nextClause scans one clause and returns it with the separator that ended it
// (';', ',' or 0 at end of input).
func (p *headerParser) nextClause() (string, byte) {
	var (
		start   = p.pos
		quoted  bool
		inValue bool
		depth   int
	)
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch {
		case quoted && c == '\\' && p.pos < len(p.src):
			p.pos++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '=':
			inValue = true
		case inValue && (c == '[' || c == '('):
			depth++
		case inValue && depth > 0 && (c == ']' || c == ')'):
			depth--
		case c == ';':
			return p.src[start : p.pos-1], c
		case c == ',' && (depth == 0 || !p.closesBeforeSeparator()):
			return p.src[start : p.pos-1], c
		}
	}
	return p.src[start:], 0
}

// closesBeforeSeparator reports whether a ']' or ')' follows the current
// position before the next ',' or ';' or the end of input.
func (p *headerParser) closesBeforeSeparator() bool {
	for i := p.pos; i < len(p.src); i++ {
		switch p.src[i] {
		case ']', ')':
			return true
		case ',', ';':
			return false
		}
	}
	return false
}

func (f *field) add(clause string) {
	eq := assignmentIndex(clause)
	if eq < 0 {
		if name := strings.TrimSpace(clause); name != "" {
			f.names = append(f.names, name)
			f.versions = append(f.versions, "")
		}
		return
	}

	key := strings.TrimSpace(clause[:eq])
	value := unquote(strings.TrimSpace(clause[eq+1:]))
	target := &f.attributes
	if strings.HasSuffix(key, ":") {
		key = strings.TrimSpace(strings.TrimSuffix(key, ":"))
		target = &f.directives
	}
	if key == "" {
		return
	}
	if target == &f.attributes && key == VersionAttribute {
		if last := len(f.names) - 1; last >= 0 && f.versions[last] == "" {
			f.versions[last] = value
		}
	}
	if *target == nil {
		*target = make(map[string]string)
	}
	if _, seen := (*target)[key]; !seen {
		(*target)[key] = value
	}
}

func (f field) capabilities() []Capability {
	var caps []Capability
	for i, name := range f.names {
		if !validName(name) {
			continue
		}
		caps = append(caps, Capability{
			Name:       name,
			Version:    f.versions[i],
			Attributes: maps.Clone(f.attributes),
			Directives: maps.Clone(f.directives),
		})
	}
	return caps
}

// assignmentIndex returns the index of the first '=' outside quotes, or -1.
func assignmentIndex(clause string) int {
	quoted := false
	for i := 0; i < len(clause); i++ {
		switch c := clause[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case !quoted && c == '=':
			return i
		}
	}
	return -1
}

// unquote strips double quotes and resolves backslash escapes inside them.
func unquote(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	quoted := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == '"':
			quoted = !quoted
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func validName(name string) bool {
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_', r == '$':
		case i > 0 && (unicode.IsDigit(r) || r == '.'):
		default:
			return false
		}
	}
	return name != ""
}
