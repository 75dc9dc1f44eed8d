// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Effect operations for data-source round trips. Each round trip is a
// suspension point: the computation registers a continuation and yields;
// dispatch never blocks. A transport-level error is always
// iox.ErrWouldBlock (retry later) — data-source failures travel in-band
// as the Left branch of the resumed Either.

// OpenCursor is the effect operation for opening a row stream.
// Perform(OpenCursor{Stmt: s}) resolves to the cursor identity.
type OpenCursor struct {
	kont.Phantom[kont.Either[error, Cursor]]
	Stmt *Statement
}

// DispatchSource handles OpenCursor on the data-source transport.
// Non-blocking: returns iox.ErrWouldBlock while the exchange is in flight.
func (op OpenCursor) DispatchSource(ctx *sourceContext) (kont.Resumed, error) {
	if ctx.closed.Load() != 0 {
		return kont.Left[error, Cursor](ErrFlowClosed), nil
	}
	c, err := ctx.driver.OpenCursor(op.Stmt)
	if errors.Is(err, iox.ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, Cursor](err), nil
	}
	return kont.Right[error, Cursor](c), nil
}

// FetchRow is the effect operation for pulling the next row of a cursor.
// Exhaustion resumes with Left(ErrEndOfRows).
type FetchRow struct {
	kont.Phantom[kont.Either[error, Row]]
	Cursor Cursor
}

// DispatchSource handles FetchRow on the data-source transport.
// Non-blocking: returns iox.ErrWouldBlock while no row is available yet.
func (op FetchRow) DispatchSource(ctx *sourceContext) (kont.Resumed, error) {
	if ctx.closed.Load() != 0 {
		return kont.Left[error, Row](ErrFlowClosed), nil
	}
	r, err := ctx.driver.FetchRow(op.Cursor)
	if errors.Is(err, iox.ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, Row](err), nil
	}
	return kont.Right[error, Row](r), nil
}

// CloseCursor is the effect operation for releasing a cursor.
type CloseCursor struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Cursor Cursor
}

// DispatchSource handles CloseCursor on the data-source transport.
func (op CloseCursor) DispatchSource(ctx *sourceContext) (kont.Resumed, error) {
	if ctx.closed.Load() != 0 {
		return kont.Left[error, struct{}](ErrFlowClosed), nil
	}
	err := ctx.driver.CloseCursor(op.Cursor)
	if errors.Is(err, iox.ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, struct{}](err), nil
	}
	return kont.Right[error, struct{}](struct{}{}), nil
}

// ExecStatement is the effect operation for executing a mutating statement.
// Resolves to the affected-row count.
type ExecStatement struct {
	kont.Phantom[kont.Either[error, int64]]
	Stmt *Statement
}

// DispatchSource handles ExecStatement on the data-source transport.
// Non-blocking: returns iox.ErrWouldBlock while the exchange is in flight.
func (op ExecStatement) DispatchSource(ctx *sourceContext) (kont.Resumed, error) {
	if ctx.closed.Load() != 0 {
		return kont.Left[error, int64](ErrFlowClosed), nil
	}
	n, err := ctx.driver.Execute(op.Stmt)
	if errors.Is(err, iox.ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, int64](err), nil
	}
	return kont.Right[error, int64](n), nil
}

// FetchMetadata is the effect operation for materializing a metadata handle
// from an in-flight data-source exchange.
type FetchMetadata struct {
	kont.Phantom[kont.Either[error, Metadata]]
	Key MetadataKey
}

// DispatchSource handles FetchMetadata on the data-source transport.
// Non-blocking: returns iox.ErrWouldBlock while the exchange is in flight.
func (op FetchMetadata) DispatchSource(ctx *sourceContext) (kont.Resumed, error) {
	if ctx.closed.Load() != 0 {
		return kont.Left[error, Metadata](ErrFlowClosed), nil
	}
	md, err := ctx.driver.Metadata(op.Key)
	if errors.Is(err, iox.ErrWouldBlock) {
		return nil, err
	}
	if err != nil {
		return kont.Left[error, Metadata](err), nil
	}
	return kont.Right[error, Metadata](md), nil
}
