// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import "fmt"

// Query is the builder-style configuration of one read or bulk-write
// operation. Setters validate eagerly and return the same handle for
// chaining; a recorded usage error fails the first terminal call instead
// of being thrown. A Query is single-use: once a terminal method has run,
// further configuration or execution fails with ErrQueryExecuted.
type Query[T any] struct {
	s        *Session
	m        Mapping[T]
	text     string
	ordinals map[int]any
	named    map[string]any
	first    int
	max      int
	readOnly bool
	comment  string
	locks    map[string]LockMode
	cache    CacheMode
	executed bool
	usageErr error
}

// CreateQuery records a query operation against s. The query text and the
// mapping are already-resolved inputs from the surrounding engine; this
// core never parses the text.
func CreateQuery[T any](s *Session, text string, m Mapping[T]) *Query[T] {
	return &Query[T]{s: s, m: m, text: text}
}

// poison records the first usage error; later ones keep the original.
func (q *Query[T]) poison(err error) {
	if q.usageErr == nil {
		q.usageErr = err
	}
}

// mutable guards configuration mutation against a started execution.
func (q *Query[T]) mutable() bool {
	if q.executed {
		q.poison(ErrQueryExecuted)
		return false
	}
	return true
}

// SetParameter binds a positional parameter. Ordinals start at 1.
func (q *Query[T]) SetParameter(ordinal int, v any) *Query[T] {
	if !q.mutable() {
		return q
	}
	if ordinal < 1 {
		q.poison(fmt.Errorf("%w: parameter ordinal %d", ErrInvalidArgument, ordinal))
		return q
	}
	if q.ordinals == nil {
		q.ordinals = make(map[int]any)
	}
	q.ordinals[ordinal] = v
	return q
}

// SetParameterNamed binds a named parameter.
func (q *Query[T]) SetParameterNamed(name string, v any) *Query[T] {
	if !q.mutable() {
		return q
	}
	if name == "" {
		q.poison(fmt.Errorf("%w: empty parameter name", ErrInvalidArgument))
		return q
	}
	if q.named == nil {
		q.named = make(map[string]any)
	}
	q.named[name] = v
	return q
}

// SetMaxResults bounds the result window. Non-positive values are rejected.
func (q *Query[T]) SetMaxResults(n int) *Query[T] {
	if !q.mutable() {
		return q
	}
	if n <= 0 {
		q.poison(fmt.Errorf("%w: max results %d", ErrInvalidArgument, n))
		return q
	}
	q.max = n
	return q
}

// SetFirstResult positions the result window. Negative values are rejected.
func (q *Query[T]) SetFirstResult(n int) *Query[T] {
	if !q.mutable() {
		return q
	}
	if n < 0 {
		q.poison(fmt.Errorf("%w: first result %d", ErrInvalidArgument, n))
		return q
	}
	q.first = n
	return q
}

// SetReadOnly marks the returned entities read-only.
func (q *Query[T]) SetReadOnly(ro bool) *Query[T] {
	if q.mutable() {
		q.readOnly = ro
	}
	return q
}

// SetComment attaches a statement comment.
func (q *Query[T]) SetComment(c string) *Query[T] {
	if q.mutable() {
		q.comment = c
	}
	return q
}

// SetLockMode sets the lock level for one alias.
func (q *Query[T]) SetLockMode(alias string, mode LockMode) *Query[T] {
	if !q.mutable() {
		return q
	}
	if alias == "" {
		q.poison(fmt.Errorf("%w: empty lock alias", ErrInvalidArgument))
		return q
	}
	if q.locks == nil {
		q.locks = make(map[string]LockMode)
	}
	q.locks[alias] = mode
	return q
}

// SetCacheMode sets the cache interaction policy.
func (q *Query[T]) SetCacheMode(mode CacheMode) *Query[T] {
	if q.mutable() {
		q.cache = mode
	}
	return q
}

// begin transitions the query into its executed state, surfacing any
// recorded usage error. Configuration is meaningless from here on.
func (q *Query[T]) begin() error {
	if q.s.closed {
		return ErrFlowClosed
	}
	if q.usageErr != nil {
		return q.usageErr
	}
	if q.executed {
		return ErrQueryExecuted
	}
	q.executed = true
	return nil
}

// statement stamps the recorded configuration onto a statement.
func (q *Query[T]) statement(kind StatementKind) *Statement {
	return &Statement{
		Kind:      kind,
		Entity:    q.m.Entity,
		Text:      q.text,
		Comment:   q.comment,
		Ordinals:  q.ordinals,
		Named:     q.named,
		First:     q.first,
		Max:       q.max,
		ReadOnly:  q.readOnly,
		LockModes: q.locks,
		CacheMode: q.cache,
	}
}

// SingleResult executes the read and resolves exactly one value:
// zero qualifying rows fail with ErrNoResult, more than one with
// ErrNonUniqueResult.
func (q *Query[T]) SingleResult() Async[T] {
	return Defer(func() Async[T] {
		if err := q.begin(); err != nil {
			return Failed[T](err)
		}
		return AndThen(q.s.autoFlushIfRequired(q.m.Entity), func(struct{}) Async[T] {
			return AndThen(Resolve(q.s.resolver, q.m), func(rm ResolvedMapping[T]) Async[T] {
				return withCursor(q.statement(StmtSelect), func(c Cursor) Async[T] {
					return AndThen(uniqueRow(c), func(row Row) Async[T] {
						v, err := rm.Map(row)
						if err != nil {
							return Failed[T](err)
						}
						return Succeed(v)
					})
				})
			})
		})
	})
}

// MaybeResult executes the read with the same uniqueness rule, but zero
// qualifying rows yield an empty result instead of a failure.
func (q *Query[T]) MaybeResult() Async[Maybe[T]] {
	return Defer(func() Async[Maybe[T]] {
		if err := q.begin(); err != nil {
			return Failed[Maybe[T]](err)
		}
		return AndThen(q.s.autoFlushIfRequired(q.m.Entity), func(struct{}) Async[Maybe[T]] {
			return AndThen(Resolve(q.s.resolver, q.m), func(rm ResolvedMapping[T]) Async[Maybe[T]] {
				return withCursor(q.statement(StmtSelect), func(c Cursor) Async[Maybe[T]] {
					return AndThen(fetchNext(c), func(first Maybe[Row]) Async[Maybe[T]] {
						row, ok := first.GetRight()
						if !ok {
							return Succeed(Nothing[T]())
						}
						return AndThen(fetchNext(c), func(second Maybe[Row]) Async[Maybe[T]] {
							if second.IsRight() {
								return Failed[Maybe[T]](ErrNonUniqueResult)
							}
							v, err := rm.Map(row)
							if err != nil {
								return Failed[Maybe[T]](err)
							}
							return Succeed(Just(v))
						})
					})
				})
			})
		})
	})
}

// ResultsFlow produces the lazy, finite, non-restartable result stream.
// Nothing touches the data source until the first Next.
func (q *Query[T]) ResultsFlow() *Flow[T] {
	return &Flow[T]{q: q}
}

// ExecuteUpdate executes a bulk write statement directly, bypassing the
// action queue, and resolves to the affected-row count.
func (q *Query[T]) ExecuteUpdate() Async[int64] {
	return Defer(func() Async[int64] {
		if err := q.begin(); err != nil {
			return Failed[int64](err)
		}
		return execStatement(q.statement(StmtBulk))
	})
}

// uniqueRow enforces the single-result contract on an open cursor.
func uniqueRow(c Cursor) Async[Row] {
	return AndThen(fetchNext(c), func(first Maybe[Row]) Async[Row] {
		row, ok := first.GetRight()
		if !ok {
			return Failed[Row](ErrNoResult)
		}
		return AndThen(fetchNext(c), func(second Maybe[Row]) Async[Row] {
			if second.IsRight() {
				return Failed[Row](ErrNonUniqueResult)
			}
			return Succeed(row)
		})
	})
}
