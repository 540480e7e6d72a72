package flow

// Scope is a per-session attribute store.
type Scope struct {
	values map[string]any
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]any)}
}

// Get returns the value stored under key, or nil.
func (s *Scope) Get(key string) any {
	return s.values[key]
}

// Put stores value under key, replacing any previous value.
func (s *Scope) Put(key string, value any) {
	s.values[key] = value
}

// Contains reports whether key has a value.
func (s *Scope) Contains(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Remove deletes key and returns the value it held.
func (s *Scope) Remove(key string) any {
	v := s.values[key]
	delete(s.values, key)
	return v
}

// Len returns the number of stored attributes.
func (s *Scope) Len() int {
	return len(s.values)
}
