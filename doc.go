// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package universal provides a lock-free universal construction for large
// shared objects.
//
// Any sequential algorithm written as reads and writes on [Cell] values becomes
// a linearizable, non-blocking concurrent operation when submitted through
// [Submit]. Cells are versioned, so an operation touches only the cells it
// reads and writes: the object state is never copied as a whole.
//
// # Design Philosophy
//
// universal provides:
//   - One point of agreement: a compare-and-swap on the chain head gives every
//     submitted operation a unique version and its place in the total order
//   - Helping: before running, an operation resolves every earlier pending
//     operation, so no submitter waits on another
//   - Deterministic, idempotent commit: redundant concurrent runs of the same
//     operation are allowed; exactly one run decides the outcome and every
//     helper commits that one
//
// # Cells
//
//   - [NewCell]: Create a cell with an initial value at version -1
//   - [Cell.Read]: Read inside an operation; returns buffered writes of the same attempt
//   - [Cell.Write]: Buffer a write inside an operation
//   - [Cell.Committed]: Inspect the committed value and version outside operations
//
// A cell stores a (value, version) pair. Commits are maximizers: a pending write
// is installed only if it carries a greater version than the stored one, so the
// stored version never decreases and repeated commits have no further effect.
//
// # Operations
//
//   - [Operation]: func(*Tx) (R, error), a function of cell state only
//   - [Proc]: func(*Tx) error, an operation without result
//   - [Tx]: Scratch space of one attempt; carries the version and pending writes
//
// Operation bodies must not keep mutable state outside cells: a body may run
// several times, concurrently, for one submission.
//
// # Dispatch
//
//   - [New]: Create an instance with an empty chain
//   - [Default]: Process-wide instance, created once
//   - [Submit]: Run an operation and return its result or its error
//   - [Universal.Exec]: Run a [Proc]
//   - [Universal.Version]: Version of the most recently installed operation
//
// # Staleness
//
// A read that finds a cell at or past the reader's version fails with
// [ErrStale]: a later operation has already committed, which implies the
// reader's own operation was decided by another goroutine. The attempt is
// discarded; [ErrStale] is never returned by [Submit].
//
// # Errors
//
// A user error returned by an operation is returned verbatim by [Submit], to
// the submitter and to every goroutine that observes the same operation.
// A panic in an operation body is raised again by [Submit] in the submitter's
// goroutine; goroutines that ran the body while helping do not panic, and the
// operation writes nothing.
// Contract violations panic with messages prefixed by "universal:".
//
// # Observability
//
//   - [WithLogger]: zap logger for contention and staleness diagnostics
//   - [WithMetrics], [NewMetrics]: Prometheus collectors
//
// # Example
//
//	u := universal.New()
//	balance := universal.NewCell(100)
//
//	withdraw := func(amount int) universal.Operation[int] {
//		return func(tx *universal.Tx) (int, error) {
//			b, err := balance.Read(tx)
//			if err != nil {
//				return 0, err
//			}
//			if b < amount {
//				return 0, ErrInsufficientFunds
//			}
//			balance.Write(tx, b-amount)
//			return b - amount, nil
//		}
//	}
//
//	left, err := universal.Submit(u, withdraw(30))
//	// left == 70, err == nil
package universal
