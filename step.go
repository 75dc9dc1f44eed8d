// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"code.hybscloud.com/kont"
)

// Step evaluates an asynchronous computation until the first data-source
// suspension. Returns (result, nil) on completion, or (zero, suspension)
// if pending.
func Step[R any](m kont.Eff[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(kont.Reify(m))
}

// Advance dispatches the suspended data-source operation on src.
// DispatchSource is non-blocking: it returns iox.ErrWouldBlock when the
// underlying exchange cannot make progress (the I/O boundary).
//
// On success (nil error), the suspension is consumed and the computation
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be retried
// after the data source makes progress.
func Advance[R any](src *Source, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	sop, ok := susp.Op().(sourceDispatcher)
	if !ok {
		panic("uow: unhandled effect in Advance")
	}
	v, err := sop.DispatchSource(&src.ctx)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
