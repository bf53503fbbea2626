// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"os"

	"github.com/anishathalye/porcupine"
	"github.com/pkg/errors"
)

// ErrIncomplete is returned when a history has calls without returns.
var ErrIncomplete = errors.New("history is not complete")

// Check reports whether events are linearizable with respect to model.
func Check(model porcupine.Model, events []porcupine.Event) (bool, error) {
	if err := complete(events); err != nil {
		return false, err
	}
	return porcupine.CheckEvents(model, events), nil
}

// CheckAndVisualize is Check that also writes a porcupine visualization of
// the history to path when it is not linearizable.
func CheckAndVisualize(model porcupine.Model, events []porcupine.Event, path string) (bool, error) {
	if err := complete(events); err != nil {
		return false, err
	}
	res, info := porcupine.CheckEventsVerbose(model, events, 0)
	if res == porcupine.Ok {
		return true, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, errors.Wrapf(err, "create visualization %s", path)
	}
	defer f.Close()
	if err := porcupine.Visualize(model, info, f); err != nil {
		return false, errors.Wrap(err, "visualize history")
	}
	return false, nil
}

// complete verifies every call has exactly one later return.
func complete(events []porcupine.Event) error {
	open := make(map[int]bool, len(events)/2)
	for _, e := range events {
		switch e.Kind {
		case porcupine.CallEvent:
			if open[e.Id] {
				return errors.Errorf("duplicate call event %d", e.Id)
			}
			open[e.Id] = true
		case porcupine.ReturnEvent:
			if !open[e.Id] {
				return errors.Errorf("return event %d without call", e.Id)
			}
			delete(open, e.Id)
		}
	}
	if len(open) != 0 {
		return errors.Wrapf(ErrIncomplete, "%d calls without return", len(open))
	}
	return nil
}
