// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Universal orders submitted operations into a single chain and resolves them.
//
// The zero value is not usable; create instances with [New].
// A Universal is safe for concurrent use. Cells must only be used by
// operations submitted to one Universal: versions from different chains are
// unrelated.
type Universal struct {
	head    atomic.Pointer[node]
	logger  *zap.Logger
	metrics *Metrics
}

// New creates a Universal with an empty chain.
func New(opts ...Option) *Universal {
	u := &Universal{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

var defaultUniversal = sync.OnceValue(func() *Universal { return New() })

// Default returns the process-wide Universal.
// It is created on first use and never reinitialized.
func Default() *Universal {
	return defaultUniversal()
}

// Submit runs op as one linearizable step of u and returns its result.
//
// The operation is given the next position in u's chain by a compare-and-swap
// on the chain head, retried under contention. Before op runs, every earlier
// operation is resolved and committed, helping their submitters if needed.
// If op returns a user error, Submit returns that exact error value.
// If op panicked, Submit panics with the same value in the caller's
// goroutine; helpers that ran op do not panic.
func Submit[R any](u *Universal, op Operation[R]) (R, error) {
	var zero R
	if op == nil {
		return zero, ErrNilOperation
	}
	o := u.submit(op.erase())
	switch o.kind {
	case kindFailed:
		return zero, o.err
	case kindPanicked:
		panic(o.recovered)
	}
	v, _ := o.value.(R)
	return v, nil
}

// Exec runs p as one linearizable step of u.
// It returns the error p returned, or nil. A panic in p is raised again
// in the caller's goroutine, as with [Submit].
func (u *Universal) Exec(p Proc) error {
	if p == nil {
		return ErrNilOperation
	}
	o := u.submit(p.erase())
	if o.kind == kindPanicked {
		panic(o.recovered)
	}
	return o.err
}

// Version returns the version of the most recently installed operation,
// or -1 if nothing was ever submitted.
func (u *Universal) Version() int64 {
	if h := u.head.Load(); h != nil {
		return h.version
	}
	return initialVersion
}

// submit installs a node for b and resolves it.
func (u *Universal) submit(b body) *outcome {
	n := &node{op: b}
	for {
		old := u.head.Load()
		n.link(old)
		if u.head.CompareAndSwap(old, n) {
			break
		}
		u.metrics.observeConflict()
		if ce := u.logger.Check(zap.DebugLevel, "install conflict"); ce != nil {
			ce.Write(zap.Int64("version", n.version))
		}
	}
	u.metrics.observeSubmit()
	return n.resolve(u)
}
