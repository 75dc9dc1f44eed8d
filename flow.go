// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

type flowState uint8

const (
	flowNew flowState = iota
	flowOpen
	flowDone
)

// Flow is a lazy, finite, non-restartable sequence of typed results,
// pulled on demand from an asynchronous data-source cursor. Each Next
// performs at most one row fetch, so backpressure is honored by simply
// not calling Next until the previous element has been consumed.
//
// Rows are delivered in the data source's row order. A data-source
// failure terminates the sequence with a failed outcome; after
// completion or failure every further Next resolves to Nothing.
type Flow[T any] struct {
	q      *Query[T]
	rm     ResolvedMapping[T]
	cursor Cursor
	state  flowState
}

// Next resolves the next element, or Nothing once the sequence is over.
// The first Next triggers the auto-flush check, mapping resolution, and
// cursor open.
func (f *Flow[T]) Next() Async[Maybe[T]] {
	return Defer(func() Async[Maybe[T]] {
		switch f.state {
		case flowDone:
			return Succeed(Nothing[T]())
		case flowNew:
			return bindOutcome(f.open(), func(_ struct{}, err error) Async[Maybe[T]] {
				if err != nil {
					f.state = flowDone
					return Failed[Maybe[T]](err)
				}
				return f.pull()
			})
		default:
			return f.pull()
		}
	})
}

// open runs the pre-read protocol once: usage check, auto-flush,
// mapping resolution, cursor open.
func (f *Flow[T]) open() Async[struct{}] {
	if err := f.q.begin(); err != nil {
		return Failed[struct{}](err)
	}
	return AndThen(f.q.s.autoFlushIfRequired(f.q.m.Entity), func(struct{}) Async[struct{}] {
		return AndThen(Resolve(f.q.s.resolver, f.q.m), func(rm ResolvedMapping[T]) Async[struct{}] {
			return AndThen(openCursor(f.q.statement(StmtSelect)), func(c Cursor) Async[struct{}] {
				f.rm = rm
				f.cursor = c
				f.state = flowOpen
				return Succeed(struct{}{})
			})
		})
	})
}

// pull fetches and maps one row. Exhaustion closes the cursor and ends
// the sequence; a failure ends it with the error after releasing the
// cursor.
func (f *Flow[T]) pull() Async[Maybe[T]] {
	return bindOutcome(fetchNext(f.cursor), func(res Maybe[Row], err error) Async[Maybe[T]] {
		if err != nil {
			return f.finish(Failed[Maybe[T]](err))
		}
		row, ok := res.GetRight()
		if !ok {
			return f.finish(Succeed(Nothing[T]()))
		}
		v, merr := f.rm.Map(row)
		if merr != nil {
			return f.finish(Failed[Maybe[T]](merr))
		}
		return Succeed(Just(v))
	})
}

// finish closes the cursor once and seals the flow, preserving out.
// A close failure is reported only when out is otherwise successful.
func (f *Flow[T]) finish(out Async[Maybe[T]]) Async[Maybe[T]] {
	f.state = flowDone
	c := f.cursor
	return bindOutcome(closeCursor(c), func(_ struct{}, cerr error) Async[Maybe[T]] {
		return bindOutcome(out, func(v Maybe[T], err error) Async[Maybe[T]] {
			if err != nil {
				return Failed[Maybe[T]](err)
			}
			if cerr != nil {
				return Failed[Maybe[T]](cerr)
			}
			return Succeed(v)
		})
	})
}

// Collect drains a flow to completion, preserving source order.
// Consuming to completion leaves no pending rows on the cursor.
func Collect[T any](f *Flow[T]) Async[[]T] {
	return collectInto(f, nil)
}

func collectInto[T any](f *Flow[T], acc []T) Async[[]T] {
	return AndThen(f.Next(), func(e Maybe[T]) Async[[]T] {
		v, ok := e.GetRight()
		if !ok {
			return Succeed(acc)
		}
		return collectInto(f, append(acc, v))
	})
}
