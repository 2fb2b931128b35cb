package convert

import (
	"strconv"
	"strings"
)

// FieldStore holds the not-yet-claimed fields of one definition. A field is
// removed the moment it is claimed, so no two handlers ever see the same
// field.
//
// Repeated directives are keyed by their lowercase base name for the first
// occurrence and base+"0", base+"1", ... for every later one.
type FieldStore struct {
	fields map[string]RawField
	order  []string
}

// NewFieldStore builds a store from fields in encounter order.
//
// Postcondition: every input field is reachable under exactly one key.
func NewFieldStore(fields []RawField) *FieldStore {
	s := &FieldStore{
		fields: make(map[string]RawField, len(fields)),
		order:  make([]string, 0, len(fields)),
	}
	seen := make(map[string]int)
	for _, f := range fields {
		base := strings.ToLower(strings.TrimSpace(f.Name))
		key := base
		if n := seen[base]; n > 0 {
			key = base + strconv.Itoa(n-1)
		}
		seen[base]++
		// A literal "rect0" may already occupy the next slot.
		for s.taken(key) {
			key = base + strconv.Itoa(seen[base]-1)
			seen[base]++
		}
		s.fields[key] = f
		s.order = append(s.order, key)
	}
	return s
}

func (s *FieldStore) taken(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// Claim removes and returns the unsuffixed field name.
//
// Postcondition: returns (field, true) at most once per key; (RawField{}, false) afterwards.
func (s *FieldStore) Claim(name string) (RawField, bool) {
	key := strings.ToLower(name)
	f, ok := s.fields[key]
	if !ok {
		return RawField{}, false
	}
	delete(s.fields, key)
	return f, true
}

// ClaimSeries claims name, then name+"0", name+"1", ... stopping at the
// first missing index.
func (s *FieldStore) ClaimSeries(name string) []RawField {
	var out []RawField
	if f, ok := s.Claim(name); ok {
		out = append(out, f)
	}
	for i := 0; ; i++ {
		f, ok := s.Claim(name + strconv.Itoa(i))
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

// Peek returns the unsuffixed field without claiming it.
func (s *FieldStore) Peek(name string) (RawField, bool) {
	f, ok := s.fields[strings.ToLower(name)]
	return f, ok
}

// Has reports whether name is still unclaimed.
func (s *FieldStore) Has(name string) bool {
	_, ok := s.fields[strings.ToLower(name)]
	return ok
}

// Len returns the number of unclaimed fields.
func (s *FieldStore) Len() int { return len(s.fields) }

// Remainder claims and returns every field still in the store, in
// original encounter order.
//
// Postcondition: the store is empty.
func (s *FieldStore) Remainder() []RawField {
	var out []RawField
	for _, key := range s.order {
		if f, ok := s.fields[key]; ok {
			out = append(out, f)
			delete(s.fields, key)
		}
	}
	return out
}
