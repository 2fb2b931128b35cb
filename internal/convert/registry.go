package convert

import (
	"strconv"
	"strings"
)

// Registry maps model ids and names to the definitions that own them.
// Entries are only ever added or overwritten; re-registering a key keeps
// the last writer.
type Registry struct {
	byModel map[int]*Definition
	byName  map[string]*Definition
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byModel: make(map[int]*Definition),
		byName:  make(map[string]*Definition),
	}
}

// RegisterModel binds model to d, replacing any earlier binding.
func (r *Registry) RegisterModel(model int, d *Definition) {
	r.byModel[model] = d
}

// RegisterName binds name (case-insensitive) to d, replacing any earlier binding.
func (r *Registry) RegisterName(name string, d *Definition) {
	r.byName[strings.ToLower(name)] = d
}

// ByModel looks up a model id.
func (r *Registry) ByModel(model int) (*Definition, bool) {
	d, ok := r.byModel[model]
	return d, ok
}

// ByName looks up a name, ignoring case.
func (r *Registry) ByName(name string) (*Definition, bool) {
	d, ok := r.byName[strings.ToLower(name)]
	return d, ok
}

// Resolve looks value up as a model id when it parses as a number, then as
// a name.
//
// Postcondition: returns (nil, false) when neither lookup succeeds; a miss
// is never an error.
func (r *Registry) Resolve(value string) (*Definition, bool) {
	value = strings.TrimSpace(value)
	if n, ok := ParseNumber(value); ok {
		if d, found := r.byModel[n]; found {
			return d, true
		}
	}
	return r.ByName(value)
}

// Len returns the number of distinct keys (models plus names).
func (r *Registry) Len() int { return len(r.byModel) + len(r.byName) }

// ParseNumber parses a script numeric literal. "0x" prefixes and a leading
// zero both denote hexadecimal; anything else is decimal.
func ParseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	base := 10
	digits := s
	switch {
	case len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X"):
		base, digits = 16, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, digits = 16, s[1:]
	}
	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}
