// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

// outcomeKind tags the result of one attempt at running an operation body.
type outcomeKind uint8

const (
	// kindStale: the attempt read state past its version and was abandoned.
	kindStale outcomeKind = iota
	// kindCompleted: the body returned normally; writes are kept for commit.
	kindCompleted
	// kindFailed: the body returned a user error; nothing is written.
	kindFailed
	// kindPanicked: the body panicked on a live attempt; nothing is written.
	kindPanicked
)

func (k outcomeKind) String() string {
	switch k {
	case kindStale:
		return "stale"
	case kindCompleted:
		return "completed"
	case kindFailed:
		return "failed"
	case kindPanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// outcome is the tagged result of an attempt.
// Once installed in a node it is immutable and shared by every helper.
type outcome struct {
	kind   outcomeKind
	value  any
	err    error
	writes map[any]write
	// recovered is the panic value of a Panicked outcome.
	recovered any
}

// staleOutcome is shared by every abandoned attempt; it is never installed.
var staleOutcome = &outcome{kind: kindStale}

// completed creates a Completed outcome that owns ws.
func completed(v any, ws map[any]write) *outcome {
	return &outcome{kind: kindCompleted, value: v, writes: ws}
}

// failed creates a Failed outcome carrying err and no writes.
func failed(err error) *outcome {
	return &outcome{kind: kindFailed, err: err}
}

// panicked creates a Panicked outcome carrying the recovered value r.
func panicked(r any) *outcome {
	return &outcome{kind: kindPanicked, recovered: r}
}

// commit applies every pending write and returns how many this call installed.
// Safe to call from any number of goroutines, any number of times.
func (o *outcome) commit() int {
	installed := 0
	for _, w := range o.writes {
		if w.commit() {
			installed++
		}
	}
	return installed
}

// run executes b once in tx and classifies the result.
//
// The Tx's stale mark decides staleness, whatever b returned. A panic raised
// while tx is stale is treated as Stale too: bodies may trip over the zero
// values handed out alongside [ErrStale]. A panic on a live attempt becomes a
// Panicked outcome, so the node still settles and the chain moves on.
func run(b body, tx *Tx) (o *outcome) {
	defer func() {
		if r := recover(); r != nil {
			if tx.stale {
				o = staleOutcome
				return
			}
			o = panicked(r)
		}
	}()
	v, err := b(tx)
	switch {
	case tx.stale:
		return staleOutcome
	case err != nil:
		return failed(err)
	default:
		return completed(v, tx.writes)
	}
}
