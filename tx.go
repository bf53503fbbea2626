// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

// Tx is the scratch space of one attempt at running an operation.
//
// A Tx carries the version assigned to the operation and the writes the
// attempt has buffered so far. It belongs to the goroutine running the
// attempt and must not be retained after the operation body returns.
type Tx struct {
	version int64
	writes  map[any]write
	stale   bool
}

// Version returns the version assigned to the operation running in tx.
func (tx *Tx) Version() int64 { return tx.version }

// newTx returns a Tx at version with an empty pooled write set.
func newTx(version int64) *Tx {
	return &Tx{version: version, writes: acquireWrites()}
}

// release hands the write set back to the pool.
// Only called when the writes are not kept by an outcome.
func (tx *Tx) release() {
	releaseWrites(tx.writes)
	tx.writes = nil
}
