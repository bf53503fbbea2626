// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// node describes one submitted operation in the chain.
//
// States, in order: Pending (outcome empty), Resolved (outcome installed),
// Retired (committed, then prev cleared). No state is revisited.
// The outcome slot is the linearization point of the operation.
type node struct {
	op      body
	version int64
	outcome atomic.Pointer[outcome]
	prev    atomic.Pointer[node]
	// retired is set once every write of the outcome is committed.
	// A nil prev alone does not tell a retired node from the first one.
	retired atomic.Bool
}

// link points n behind prev and derives its version.
// Only valid while n is unpublished.
func (n *node) link(prev *node) {
	n.version = 0
	if prev != nil {
		n.version = prev.version + 1
	}
	n.prev.Store(prev)
}

// resolve settles every unretired predecessor of n, oldest first, then n
// itself, and returns n's outcome.
//
// Safe to call concurrently and redundantly. Chain order is the
// linearization order: each node observes every effect of the nodes before
// it because they are committed before it runs.
func (n *node) resolve(u *Universal) *outcome {
	var buf [8]*node
	chain := n.unretired(buf[:0])
	u.metrics.observeChain(len(chain))
	if ce := u.logger.Check(zap.DebugLevel, "helping predecessors"); ce != nil {
		if helped := pending(chain[1:]); helped > 0 {
			ce.Write(zap.Int64("version", n.version), zap.Int("depth", helped))
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].settle(u)
	}
	return n.outcome.Load()
}

// unretired appends n and its predecessors, stopping before the first
// retired predecessor. n itself is always appended.
func (n *node) unretired(chain []*node) []*node {
	chain = append(chain, n)
	for p := n.prev.Load(); p != nil && !p.retired.Load(); p = p.prev.Load() {
		chain = append(chain, p)
	}
	return chain
}

// pending counts the nodes in chain with no installed outcome.
func pending(chain []*node) int {
	k := 0
	for _, p := range chain {
		if p.outcome.Load() == nil {
			k++
		}
	}
	return k
}

// settle brings n to Retired: attempt if unresolved, commit, retire.
// Every predecessor of n must already be settled.
func (n *node) settle(u *Universal) {
	if n.outcome.Load() == nil {
		tx := newTx(n.version)
		o := run(n.op, tx)
		u.metrics.observeAttempt(o.kind)
		switch {
		case o.kind == kindStale:
			tx.release()
			if ce := u.logger.Check(zap.DebugLevel, "stale attempt abandoned"); ce != nil {
				ce.Write(zap.Int64("version", n.version))
			}
		case n.outcome.CompareAndSwap(nil, o):
			if o.kind != kindCompleted {
				tx.release()
			}
			if o.kind == kindPanicked {
				u.logger.Error("operation panicked", zap.Int64("version", n.version), zap.Any("panic", o.recovered))
			}
		default:
			tx.release()
		}
	}

	o := n.outcome.Load()
	if o == nil {
		u.logger.Error(errUnsettledStale, zap.Int64("version", n.version))
		panic(errUnsettledStale)
	}
	u.metrics.observeCommits(o.commit())
	n.retired.Store(true)
	n.prev.Store(nil)
}
