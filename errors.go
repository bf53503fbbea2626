// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package universal

import "errors"

// ErrStale is returned by [Cell.Read] when a later operation has already
// advanced the cell past the reading attempt's version.
//
// ErrStale is an internal control signal. An operation body should return as
// soon as it sees it; the attempt is discarded and the error never reaches the
// caller of [Submit] or [Universal.Exec].
var ErrStale = errors.New("universal: stale read")

// ErrNilOperation is returned when a nil operation is submitted.
var ErrNilOperation = errors.New("universal: nil operation")

// Panic messages for contract violations.
const (
	errOutsideOperation = "universal: cell accessed outside an operation"
	errUnsettledStale   = "universal: stale attempt on unsettled node"
)
