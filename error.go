// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import "errors"

// Failure taxonomy. Usage errors and execution failures alike travel through
// the outcome channel (the Left branch of an [Async] result); only
// iox.ErrWouldBlock appears at the transport boundary, where it means
// "retry after the data source makes progress", never "failed".
var (
	// ErrNoResult fails Query.SingleResult when zero rows qualify.
	// Query.MaybeResult treats the same condition as a successful Nothing.
	ErrNoResult = errors.New("uow: no result")

	// ErrNonUniqueResult fails SingleResult and MaybeResult when more than
	// one row qualifies.
	ErrNonUniqueResult = errors.New("uow: non-unique result")

	// ErrQueryExecuted marks configuration mutated or a terminal method
	// called after execution has begun. Query handles are single-use.
	ErrQueryExecuted = errors.New("uow: query already executed")

	// ErrBlockingResolution marks a blocking-style call into the
	// reactive-only mapping resolver. Use Resolve instead.
	ErrBlockingResolution = errors.New("uow: blocking resolution on reactive resolver")

	// ErrFlowClosed marks an operation issued on a closed session flow.
	ErrFlowClosed = errors.New("uow: flow closed")

	// ErrEndOfRows is the in-band cursor exhaustion signal from a Driver.
	// It never escapes to callers: streams translate it into completion.
	ErrEndOfRows = errors.New("uow: end of rows")

	// ErrNilEntity marks persist/remove of a nil entity.
	ErrNilEntity = errors.New("uow: nil entity")

	// ErrEntityRemoved marks persist of an entity already scheduled for
	// removal in this flow.
	ErrEntityRemoved = errors.New("uow: entity scheduled for removal")

	// ErrTransientEntity marks remove or dirty-marking of an entity that is
	// not managed in this flow.
	ErrTransientEntity = errors.New("uow: transient entity")

	// ErrInvalidArgument marks an eagerly rejected query configuration
	// value, e.g. a negative result window.
	ErrInvalidArgument = errors.New("uow: invalid argument")
)
