// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import "sync"

// Write-set pool for attempts.
// A write set is released only when no outcome references it: after a stale
// attempt, a failed attempt, or an attempt that lost the outcome CAS.
// Write sets kept by a settled outcome are shared by helpers and never pooled.

// maxPooledWrites bounds the size of write sets kept in the pool.
const maxPooledWrites = 64

var writesPool = sync.Pool{New: func() any { return make(map[any]write, 4) }}

// acquireWrites returns an empty write set.
func acquireWrites() map[any]write {
	return writesPool.Get().(map[any]write)
}

// releaseWrites clears ws and returns it to the pool; large sets are dropped.
func releaseWrites(ws map[any]write) {
	if ws == nil || len(ws) > maxPooledWrites {
		return
	}
	clear(ws)
	writesPool.Put(ws)
}
