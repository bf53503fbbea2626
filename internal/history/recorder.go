// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package history records concurrent operation histories and checks them
// for linearizability.
package history

import (
	"sync"

	"github.com/anishathalye/porcupine"
	"github.com/google/uuid"
)

// Recorder collects call and return events from concurrent clients.
// Events are kept in real-time order: a call must be recorded before the
// operation starts and its return after the operation finishes.
type Recorder struct {
	id string

	mu     sync.Mutex
	events []porcupine.Event
	nextID int
	open   map[int]int // event id -> client
}

// NewRecorder creates an empty recorder with a fresh run id.
func NewRecorder() *Recorder {
	return &Recorder{
		id:   uuid.NewString(),
		open: make(map[int]int),
	}
}

// ID identifies the recorded run.
func (r *Recorder) ID() string { return r.id }

// Call records that client invoked an operation with input.
// The returned id must be passed to Return.
func (r *Recorder) Call(client int, input any) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.open[id] = client
	r.events = append(r.events, porcupine.Event{
		ClientId: client,
		Kind:     porcupine.CallEvent,
		Value:    input,
		Id:       id,
	})
	return id
}

// Return records that the operation id of client finished with output.
func (r *Recorder) Return(client, id int, output any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.open, id)
	r.events = append(r.events, porcupine.Event{
		ClientId: client,
		Kind:     porcupine.ReturnEvent,
		Value:    output,
		Id:       id,
	})
}

// Pending returns the number of calls without a recorded return.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []porcupine.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]porcupine.Event(nil), r.events...)
}
