// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// sourceHandler implements kont.Handler for data-source effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch
// into blocking evaluation for Exec.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type sourceHandler[R any] struct {
	ctx *sourceContext
}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff.
func (h sourceHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	sop, ok := op.(sourceDispatcher)
	if !ok {
		panic("uow: unhandled effect in sourceHandler")
	}
	return dispatchWait(h.ctx, sop), true
}

// dispatchWait blocks until DispatchSource succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff (I/O readiness waiting).
func dispatchWait(ctx *sourceContext, sop sourceDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := sop.DispatchSource(ctx)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs an asynchronous computation to completion on src.
// Blocks on iox.ErrWouldBlock via adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels. Intended for callers
// that have no proactor loop; reactive callers use Step and Advance.
func Exec[R any](src *Source, m kont.Eff[R]) R {
	h := sourceHandler[R]{ctx: &src.ctx}
	return kont.Handle(m, h)
}
