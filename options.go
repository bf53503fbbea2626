// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import "go.uber.org/zap"

// Option configures a [Universal].
type Option func(*Universal)

// WithLogger sets the logger used for contention and staleness diagnostics.
// A nil logger keeps the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(u *Universal) {
		if l != nil {
			u.logger = l.With(zap.String("component", "universal"))
		}
	}
}

// WithMetrics records activity into m.
// One Metrics may be shared by several instances.
func WithMetrics(m *Metrics) Option {
	return func(u *Universal) {
		u.metrics = m
	}
}
