package api

import "sync/atomic"

// LoadingFlag marks a call as outstanding for the binding that owns it.
// It is not shared between bindings: each hook or caller holds its own.
type LoadingFlag struct {
	v atomic.Bool
}

// TryAcquire sets the flag and reports whether it was previously clear.
func (f *LoadingFlag) TryAcquire() bool {
	return f.v.CompareAndSwap(false, true)
}

// Release clears the flag.
func (f *LoadingFlag) Release() {
	f.v.Store(false)
}

// IsLoading reports whether a call is outstanding.
func (f *LoadingFlag) IsLoading() bool {
	if f == nil {
		return false
	}
	return f.v.Load()
}
