// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "universal"

// Metrics holds the Prometheus collectors of one or more [Universal] instances.
// A nil *Metrics records nothing.
type Metrics struct {
	Submitted prometheus.Counter
	Conflicts prometheus.Counter
	Attempts  *prometheus.CounterVec
	Commits   prometheus.Counter
	Chain     prometheus.Histogram

	stale     prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
	panicked  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submitted_total",
			Help:      "Operations installed in the chain",
		}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "install_conflicts_total",
			Help:      "Failed chain head compare-and-swap attempts",
		}),
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "attempts_total",
			Help:      "Operation body executions by result",
		}, []string{"result"}),
		Commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cell_commits_total",
			Help:      "Pending writes installed into cells",
		}),
		Chain: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "help_chain_length",
			Help:      "Nodes settled per resolution: the submitted one plus unretired predecessors",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	m.stale = m.Attempts.WithLabelValues(kindStale.String())
	m.completed = m.Attempts.WithLabelValues(kindCompleted.String())
	m.failed = m.Attempts.WithLabelValues(kindFailed.String())
	m.panicked = m.Attempts.WithLabelValues(kindPanicked.String())

	if reg != nil {
		reg.MustRegister(m.Submitted, m.Conflicts, m.Attempts, m.Commits, m.Chain)
	}
	return m
}

func (m *Metrics) observeSubmit() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) observeConflict() {
	if m != nil {
		m.Conflicts.Inc()
	}
}

func (m *Metrics) observeAttempt(k outcomeKind) {
	if m == nil {
		return
	}
	switch k {
	case kindStale:
		m.stale.Inc()
	case kindCompleted:
		m.completed.Inc()
	case kindFailed:
		m.failed.Inc()
	case kindPanicked:
		m.panicked.Inc()
	}
}

func (m *Metrics) observeCommits(n int) {
	if m != nil && n > 0 {
		m.Commits.Add(float64(n))
	}
}

func (m *Metrics) observeChain(n int) {
	if m != nil {
		m.Chain.Observe(float64(n))
	}
}
