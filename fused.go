// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"errors"

	"code.hybscloud.com/kont"
)

// Fused constructors over the data-source effects. Perform already makes
// each operation an Async (the phantom result is the outcome Either);
// these wrappers add the bookkeeping every call site repeats.

// openCursor opens a row stream for stmt.
// Fuses Perform(OpenCursor).
func openCursor(stmt *Statement) Async[Cursor] {
	return kont.Perform(OpenCursor{Stmt: stmt})
}

// fetchNext pulls the next row of c, translating cursor exhaustion into
// absence. Fuses Perform(FetchRow) + Bind.
func fetchNext(c Cursor) Async[Maybe[Row]] {
	return kont.Bind(kont.Perform(FetchRow{Cursor: c}), func(e kont.Either[error, Row]) Async[Maybe[Row]] {
		if err, ok := e.GetLeft(); ok {
			if errors.Is(err, ErrEndOfRows) {
				return Succeed(Nothing[Row]())
			}
			return Failed[Maybe[Row]](err)
		}
		r, _ := e.GetRight()
		return Succeed(Just(r))
	})
}

// closeCursor releases c.
// Fuses Perform(CloseCursor).
func closeCursor(c Cursor) Async[struct{}] {
	return kont.Perform(CloseCursor{Cursor: c})
}

// execStatement executes a mutating statement for its affected-row count.
// Fuses Perform(ExecStatement).
func execStatement(stmt *Statement) Async[int64] {
	return kont.Perform(ExecStatement{Stmt: stmt})
}

// execUnit executes a mutating statement, discarding the count.
// Fuses Perform(ExecStatement) + Bind.
func execUnit(stmt *Statement) Async[struct{}] {
	return AndThen(execStatement(stmt), func(int64) Async[struct{}] {
		return Succeed(struct{}{})
	})
}

// fetchMetadata materializes a metadata handle.
// Fuses Perform(FetchMetadata).
func fetchMetadata(key MetadataKey) Async[Metadata] {
	return kont.Perform(FetchMetadata{Key: key})
}

// withCursor brackets body between cursor open and close. The cursor is
// closed whether body succeeds or fails; a body failure wins over a close
// failure, and a close failure after a successful body fails the outcome.
func withCursor[T any](stmt *Statement, body func(Cursor) Async[T]) Async[T] {
	return AndThen(openCursor(stmt), func(c Cursor) Async[T] {
		return kont.Bind(body(c), func(res kont.Either[error, T]) Async[T] {
			return kont.Bind(closeCursor(c), func(ce kont.Either[error, struct{}]) Async[T] {
				if err, ok := res.GetLeft(); ok {
					return Failed[T](err)
				}
				if err, ok := ce.GetLeft(); ok {
					return Failed[T](err)
				}
				return kont.Pure(res)
			})
		})
	})
}
