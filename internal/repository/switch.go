package repository

import "sync/atomic"

// Switch hands out the active Store.  The initial backend comes from
// configuration; a successful migration flips it to the document store
// exactly once.  Handlers call Current once at the start of a request and
// keep using that Store, so an in-flight request never observes a flip.
type Switch struct {
	current atomic.Pointer[storeBox]
}

// storeBox wraps the interface value so it fits an atomic.Pointer.
type storeBox struct{ s Store }

// NewSwitch returns a Switch serving the given initial backend.
func NewSwitch(initial Store) *Switch {
	sw := &Switch{}
	sw.current.Store(&storeBox{s: initial})
	return sw
}

// Current returns the active Store.
func (sw *Switch) Current() Store {
	return sw.current.Load().s
}

// Flip atomically replaces the active Store.  Requests already holding
// the previous Store finish against it.
func (sw *Switch) Flip(to Store) {
	sw.current.Store(&storeBox{s: to})
}
