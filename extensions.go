package besi

// Extensions is capability-keyed storage attached to each Request. It lets
// middleware stash typed data on a request without widening the Request
// schema: each key denotes one capability and holds at most one value.
//
// Keys follow the context.Context convention: declare an unexported key
// type in the package that owns the capability, so no two packages can
// collide.
//
// An Extensions is exclusively owned by the single handler processing its
// request, so access is not synchronized.
type Extensions struct {
	values map[any]any
}

// NewExtensions creates an empty extension store.
func NewExtensions() *Extensions {
	return &Extensions{values: make(map[any]any)}
}

// Set stores value under key, overwriting any existing value for that key.
func (e *Extensions) Set(key, value any) {
	e.values[key] = value
}

// Get returns the value stored under key and whether one was present.
func (e *Extensions) Get(key any) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Remove deletes the value stored under key and returns it, along with
// whether one was present.
func (e *Extensions) Remove(key any) (any, bool) {
	v, ok := e.values[key]
	if ok {
		delete(e.values, key)
	}
	return v, ok
}

// Len returns the number of stored values.
func (e *Extensions) Len() int {
	return len(e.values)
}

// GetExtension returns the value stored under key as a T. The second result
// is false when the key is absent or the stored value is not a T.
func GetExtension[T any](e *Extensions, key any) (T, bool) {
	v, ok := e.values[key]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
