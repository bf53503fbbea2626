// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"code.hybscloud.com/universal"
)

func TestMetricsCountSequentialActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := universal.NewMetrics(reg)
	u := universal.New(universal.WithMetrics(m))
	a, b := universal.NewCell(0), universal.NewCell(0)

	for range 3 {
		if err := u.Exec(func(tx *universal.Tx) error {
			a.Write(tx, 1)
			b.Write(tx, 2)
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	_ = u.Exec(func(tx *universal.Tx) error { return errors.New("E1") })

	if got := testutil.ToFloat64(m.Submitted); got != 4 {
		t.Fatalf("submitted = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.Conflicts); got != 0 {
		t.Fatalf("conflicts = %v, want 0 without contention", got)
	}
	if got := testutil.ToFloat64(m.Attempts.WithLabelValues("completed")); got != 3 {
		t.Fatalf("completed attempts = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.Attempts.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed attempts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Commits); got != 6 {
		t.Fatalf("commits = %v, want 6", got)
	}
	if n, err := testutil.GatherAndCount(reg, "universal_help_chain_length"); err != nil || n != 1 {
		t.Fatalf("chain histogram series = %d (%v), want 1", n, err)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	u := universal.New(universal.WithMetrics(nil))
	if err := u.Exec(func(tx *universal.Tx) error { return nil }); err != nil {
		t.Fatal(err)
	}
}

func TestMetricsSharedBetweenInstances(t *testing.T) {
	m := universal.NewMetrics(nil)
	u1 := universal.New(universal.WithMetrics(m))
	u2 := universal.New(universal.WithMetrics(m))
	_ = u1.Exec(func(tx *universal.Tx) error { return nil })
	_ = u2.Exec(func(tx *universal.Tx) error { return nil })
	if got := testutil.ToFloat64(m.Submitted); got != 2 {
		t.Fatalf("submitted = %v, want 2", got)
	}
}

func TestLoggerQuietWithoutContention(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	u := universal.New(universal.WithLogger(zap.New(core)))
	c := universal.NewCell(0)

	// Without contention nothing is logged at any level.
	for range 10 {
		if err := u.Exec(store(c, 1)); err != nil {
			t.Fatal(err)
		}
	}
	if n := logs.Len(); n != 0 {
		t.Fatalf("got %d log entries on an uncontended chain", n)
	}
	universal.New(universal.WithLogger(nil)) // keeps the no-op logger
}

func TestMetricsUncontendedChainIsOne(t *testing.T) {
	m := universal.NewMetrics(nil)
	u := universal.New(universal.WithMetrics(m))
	c := universal.NewCell(0)
	for i := range 3 {
		if err := u.Exec(store(c, i)); err != nil {
			t.Fatal(err)
		}
	}

	// Retired predecessors are not settled again.
	const want = `
# HELP universal_help_chain_length Nodes settled per resolution: the submitted one plus unretired predecessors
# TYPE universal_help_chain_length histogram
universal_help_chain_length_bucket{le="1"} 3
universal_help_chain_length_bucket{le="2"} 3
universal_help_chain_length_bucket{le="4"} 3
universal_help_chain_length_bucket{le="8"} 3
universal_help_chain_length_bucket{le="16"} 3
universal_help_chain_length_bucket{le="32"} 3
universal_help_chain_length_bucket{le="64"} 3
universal_help_chain_length_bucket{le="128"} 3
universal_help_chain_length_bucket{le="+Inf"} 3
universal_help_chain_length_sum 3
universal_help_chain_length_count 3
`
	if err := testutil.CollectAndCompare(m.Chain, strings.NewReader(want), "universal_help_chain_length"); err != nil {
		t.Fatal(err)
	}
	// Each write is installed once.
	if got := testutil.ToFloat64(m.Commits); got != 3 {
		t.Fatalf("commits = %v, want 3", got)
	}
}

func TestMetricsCountPanickedAttempt(t *testing.T) {
	m := universal.NewMetrics(nil)
	u := universal.New(universal.WithMetrics(m))
	func() {
		defer func() { _ = recover() }()
		_ = u.Exec(func(tx *universal.Tx) error { panic("boom") })
	}()
	if got := testutil.ToFloat64(m.Attempts.WithLabelValues("panicked")); got != 1 {
		t.Fatalf("panicked attempts = %v, want 1", got)
	}
}
