// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"slices"

	"github.com/anishathalye/porcupine"
)

// RegisterInput is a read (Write == false) or a write of Value.
type RegisterInput struct {
	Write bool
	Value int
}

// RegisterOutput is the value a read observed.
type RegisterOutput struct {
	Value int
}

// RegisterModel is a single integer register starting at init.
func RegisterModel(init int) porcupine.Model {
	return porcupine.Model{
		Init: func() any { return init },
		Step: func(state, input, output any) (bool, any) {
			st := state.(int)
			in := input.(RegisterInput)
			if in.Write {
				return true, in.Value
			}
			return output.(RegisterOutput).Value == st, st
		},
		Equal: func(a, b any) bool { return a.(int) == b.(int) },
	}
}

// QueueInput is an enqueue of Value (Enqueue == true) or a dequeue.
type QueueInput struct {
	Enqueue bool
	Value   int
}

// QueueOutput is the result of a dequeue; Empty means the queue was empty.
type QueueOutput struct {
	Value int
	Empty bool
}

// QueueModel is a FIFO queue of integers, initially empty.
func QueueModel() porcupine.Model {
	return porcupine.Model{
		Init: func() any { return []int(nil) },
		Step: func(state, input, output any) (bool, any) {
			st := state.([]int)
			in := input.(QueueInput)
			if in.Enqueue {
				next := make([]int, len(st), len(st)+1)
				copy(next, st)
				return true, append(next, in.Value)
			}
			out := output.(QueueOutput)
			if out.Empty {
				return len(st) == 0, st
			}
			if len(st) == 0 || st[0] != out.Value {
				return false, st
			}
			return true, st[1:]
		},
		Equal: func(a, b any) bool { return slices.Equal(a.([]int), b.([]int)) },
	}
}
