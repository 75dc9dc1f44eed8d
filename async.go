// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"code.hybscloud.com/kont"
)

// Async is the asynchronous outcome of one persistence operation:
// a deferred computation delivering either a failure (Left) or a value
// (Right). Evaluate with Exec, or one effect at a time with Step/Advance.
type Async[A any] = kont.Eff[kont.Either[error, A]]

// Maybe is an optional value: Left is absence, Right carries the value.
// Absence through a Maybe is success, not failure.
type Maybe[T any] = kont.Either[struct{}, T]

// Just wraps a present value.
func Just[T any](v T) Maybe[T] {
	return kont.Right[struct{}, T](v)
}

// Nothing is the absent value.
func Nothing[T any]() Maybe[T] {
	return kont.Left[struct{}, T](struct{}{})
}

// Succeed lifts a value into a successful outcome.
func Succeed[A any](a A) Async[A] {
	return kont.Pure(kont.Right[error, A](a))
}

// Failed lifts an error into a failed outcome.
func Failed[A any](err error) Async[A] {
	return kont.Pure(kont.Left[error, A](err))
}

// AndThen sequences two outcomes. A Left short-circuits: f never runs and
// the failure propagates unchanged.
func AndThen[A, B any](m Async[A], f func(A) Async[B]) Async[B] {
	return kont.Bind(m, func(e kont.Either[error, A]) Async[B] {
		if err, ok := e.GetLeft(); ok {
			return Failed[B](err)
		}
		v, _ := e.GetRight()
		return f(v)
	})
}

// bindOutcome sequences without short-circuiting: f always runs and
// observes either the value or the failure. Used where cleanup must happen
// on both paths.
func bindOutcome[A, B any](m Async[A], f func(A, error) Async[B]) Async[B] {
	return kont.Bind(m, func(e kont.Either[error, A]) Async[B] {
		if err, ok := e.GetLeft(); ok {
			var zero A
			return f(zero, err)
		}
		v, _ := e.GetRight()
		return f(v, nil)
	})
}

// Defer delays construction of an outcome until evaluation time.
// State observed inside f (queues, caches, cursors) is read when the
// computation runs, not when it is assembled.
func Defer[A any](f func() Async[A]) Async[A] {
	return kont.Bind(kont.Pure(struct{}{}), func(struct{}) Async[A] {
		return f()
	})
}
