package types

import "sync"

// Registry is the type pool manager: it owns exactly one canonical
// instance per distinct structural type value and hands out shared
// read-only references. After interning, two structurally equal types
// are pointer-equal.
//
// A Registry may be shared by parsers running on different goroutines;
// all access is internally synchronized.
type Registry struct {
	mu sync.RWMutex
	// Buckets keyed by structural hash, with Equals as the collision
	// fallback.
	pool map[uint64][]*Type
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{pool: make(map[uint64][]*Type)}
}

// Intern returns the canonical instance for t, creating it if this is
// the first time the structural value is seen. Generic arguments are
// interned recursively, so every type reachable from a canonical type
// is itself canonical. The argument is not retained.
func (r *Registry) Intern(t *Type) *Type {
	if t == nil {
		return nil
	}

	var args []*Type
	if len(t.GenericArgs) > 0 {
		args = make([]*Type, len(t.GenericArgs))
		for i, arg := range t.GenericArgs {
			args[i] = r.Intern(arg)
		}
	}
	candidate := &Type{BaseName: t.BaseName, GenericArgs: args, Const: t.Const}
	key := candidate.hash()

	r.mu.RLock()
	for _, existing := range r.pool[key] {
		if existing.Equals(candidate) {
			r.mu.RUnlock()
			return existing
		}
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have interned the same value between the
	// read unlock and here.
	for _, existing := range r.pool[key] {
		if existing.Equals(candidate) {
			return existing
		}
	}
	r.pool[key] = append(r.pool[key], candidate)
	return candidate
}

// Primitive is a convenience helper for non-generic types such as
// "int" or "void".
func (r *Registry) Primitive(base string) *Type {
	return r.Intern(New(base))
}

// Size returns the number of distinct types interned so far.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, bucket := range r.pool {
		n += len(bucket)
	}
	return n
}
