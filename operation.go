// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

// Operation is a sequential algorithm over cells.
//
// The body interacts with shared state only through [Cell.Read] and
// [Cell.Write] on the Tx it receives, and captures no mutable state of its
// own: it may run several times, concurrently, on behalf of one submission,
// and only one of those runs decides the outcome.
//
// A non-nil error other than [ErrStale] is a user error and is returned
// verbatim to the submitter.
//
// Example:
//
//	counter := universal.NewCell(0)
//	next, err := universal.Submit(u, func(tx *universal.Tx) (int, error) {
//		n, err := counter.Read(tx)
//		if err != nil {
//			return 0, err
//		}
//		counter.Write(tx, n+1)
//		return n + 1, nil
//	})
type Operation[R any] func(tx *Tx) (R, error)

// Proc is an operation without a result.
type Proc func(tx *Tx) error

// erase adapts op to the result-erased form stored in a node.
func (op Operation[R]) erase() body {
	return func(tx *Tx) (any, error) {
		return op(tx)
	}
}

// erase adapts p to the result-erased form stored in a node.
func (p Proc) erase() body {
	return func(tx *Tx) (any, error) {
		return nil, p(tx)
	}
}

// body is the result-erased operation form carried by nodes.
type body func(tx *Tx) (any, error)
