// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import "sync/atomic"

// initialVersion is below every operation version.
const initialVersion int64 = -1

// Cell is a shared memory location holding a value and the version of the
// operation that last wrote it.
//
// Cells are read and written only from inside an operation body, through the
// [Tx] the body receives. Writes are buffered in the Tx and become visible
// once the owning operation commits. The committed version never decreases.
type Cell[T any] struct {
	state atomic.Pointer[cellState[T]]
}

// cellState is an immutable (value, version) pair.
// Pointer identity makes every pending write a distinct CAS target.
type cellState[T any] struct {
	value   T
	version int64
}

// NewCell creates a cell holding v at a version below all operations.
func NewCell[T any](v T) *Cell[T] {
	c := &Cell[T]{}
	c.state.Store(&cellState[T]{value: v, version: initialVersion})
	return c
}

// Read returns the value of c as seen by the operation running in tx.
//
// A value written earlier in the same attempt is returned as written.
// If c already carries a version at or past tx's version, the attempt is
// stale: tx is marked and Read returns the zero value and [ErrStale].
// Every later Read on a stale tx also returns [ErrStale].
func (c *Cell[T]) Read(tx *Tx) (T, error) {
	if tx == nil {
		panic(errOutsideOperation)
	}
	var zero T
	if tx.stale {
		return zero, ErrStale
	}
	s := c.state.Load()
	if s.version >= tx.version {
		tx.stale = true
		return zero, ErrStale
	}
	if w, ok := tx.writes[c]; ok {
		return w.(cellWrite[T]).state.value, nil
	}
	return s.value, nil
}

// Write buffers v as the new value of c for the operation running in tx.
// The write is not visible outside tx until the operation commits.
func (c *Cell[T]) Write(tx *Tx, v T) {
	if tx == nil {
		panic(errOutsideOperation)
	}
	if tx.stale {
		return
	}
	tx.writes[c] = cellWrite[T]{cell: c, state: &cellState[T]{value: v, version: tx.version}}
}

// Committed returns the committed value of c and its version.
// It does not take part in any operation and may lag pending commits.
func (c *Cell[T]) Committed() (T, int64) {
	s := c.state.Load()
	return s.value, s.version
}

// commit installs pending unless c already holds an equal or greater version.
// It reports whether this call performed the installation.
// Any number of goroutines may commit the same pending state in any order;
// c converges to the highest version among them.
func (c *Cell[T]) commit(pending *cellState[T]) bool {
	for {
		cur := c.state.Load()
		if cur.version >= pending.version {
			return false
		}
		if c.state.CompareAndSwap(cur, pending) {
			return true
		}
	}
}

// write is a type-erased pending cell write held by a settled outcome.
type write interface {
	commit() bool
}

// cellWrite binds a pending state to its cell so the pair keeps one type.
type cellWrite[T any] struct {
	cell  *Cell[T]
	state *cellState[T]
}

func (w cellWrite[T]) commit() bool { return w.cell.commit(w.state) }
