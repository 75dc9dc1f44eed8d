// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

// Entity is the managed-object contract this core consumes from the
// surrounding engine: a name identifying the extent, a comparable
// identity, and the already-mapped row state. Mapping metadata itself
// stays outside.
type Entity interface {
	EntityName() string
	EntityID() any
	EntityState() Row
}

// Session is the reactive query/session bridge for one flow: it records
// writes as deferred actions, resolves reads through the mapping resolver,
// and returns asynchronous outcomes. All of its state — action queue,
// identity cache, context associations — is owned by one flow and must
// never be touched from another.
type Session struct {
	ctx      *Context
	src      *Source
	resolver *Resolver
	queue    ActionQueue
	cache    map[TargetKey]Row
	managed  map[TargetKey]bool
	removed  map[TargetKey]bool
	closed   bool
}

// NewSession binds a session to a flow context, a data source, and a
// mapping resolver. A nil ctx creates a fresh flow context. The session
// associates itself under SessionKey.
func NewSession(ctx *Context, src *Source, resolver *Resolver) *Session {
	if ctx == nil {
		ctx = NewContext()
	}
	s := &Session{
		ctx:      ctx,
		src:      src,
		resolver: resolver,
		cache:    make(map[TargetKey]Row),
		managed:  make(map[TargetKey]bool),
		removed:  make(map[TargetKey]bool),
	}
	ctx.Put(SessionKey, s)
	return s
}

// Context returns the flow context this session is bound to.
func (s *Session) Context() *Context {
	return s.ctx
}

// Queue exposes the session's action queue.
func (s *Session) Queue() *ActionQueue {
	return &s.queue
}

// Close marks the flow closed. Pending actions are discarded; every
// further operation fails with ErrFlowClosed.
func (s *Session) Close() {
	s.closed = true
	s.queue.Clear()
	s.ctx.Remove(SessionKey)
}

// autoFlushIfRequired flushes pending actions before a read when the
// caller context requests auto-flush and the read's dependency space
// intersects the queued targets. The default — no AutoFlushKey
// association — is no auto-flush.
func (s *Session) autoFlushIfRequired(space string) Async[struct{}] {
	return Defer(func() Async[struct{}] {
		v, ok := s.ctx.Get(AutoFlushKey)
		if b, isBool := v.(bool); !ok || !isBool || !b {
			return Succeed(struct{}{})
		}
		if !s.queue.Touches(space) {
			return Succeed(struct{}{})
		}
		return s.queue.Flush()
	})
}

// Find resolves an identity lookup asynchronously: the in-flow identity
// cache first, otherwise one fetch round trip. Absence is a successful
// Nothing. A found row enters the identity cache and becomes managed.
func Find[T any](s *Session, m Mapping[T], id any) Async[Maybe[T]] {
	return Defer(func() Async[Maybe[T]] {
		if s.closed {
			return Failed[Maybe[T]](ErrFlowClosed)
		}
		k := TargetKey{Entity: m.Entity, ID: id}
		if s.removed[k] {
			return Succeed(Nothing[T]())
		}
		if row, ok := s.cache[k]; ok {
			return mapRow(s, m, row)
		}
		return AndThen(s.autoFlushIfRequired(m.Entity), func(struct{}) Async[Maybe[T]] {
			stmt := &Statement{Kind: StmtSelect, Entity: m.Entity, ID: id}
			return withCursor(stmt, func(c Cursor) Async[Maybe[T]] {
				return AndThen(fetchNext(c), func(res Maybe[Row]) Async[Maybe[T]] {
					row, ok := res.GetRight()
					if !ok {
						return Succeed(Nothing[T]())
					}
					s.cache[k] = row
					s.managed[k] = true
					return mapRow(s, m, row)
				})
			})
		})
	})
}

// mapRow applies the resolved mapping to one cached or fetched row.
func mapRow[T any](s *Session, m Mapping[T], row Row) Async[Maybe[T]] {
	return AndThen(Resolve(s.resolver, m), func(rm ResolvedMapping[T]) Async[Maybe[T]] {
		v, err := rm.Map(row)
		if err != nil {
			return Failed[Maybe[T]](err)
		}
		return Succeed(Just(v))
	})
}

// Persist schedules an insert for e. The outcome completes once the
// action is enqueued; execution is deferred to the next flush. Persisting
// an entity already scheduled for removal in this flow is a usage error.
func Persist(s *Session, e Entity) Async[struct{}] {
	return Defer(func() Async[struct{}] {
		if s.closed {
			return Failed[struct{}](ErrFlowClosed)
		}
		if e == nil {
			return Failed[struct{}](ErrNilEntity)
		}
		k := TargetKey{Entity: e.EntityName(), ID: e.EntityID()}
		if s.removed[k] {
			return Failed[struct{}](ErrEntityRemoved)
		}
		stmt := &Statement{Kind: StmtInsert, Entity: k.Entity, ID: k.ID, Values: e.EntityState()}
		s.queue.Enqueue(NewAction(ActInsert, k, execUnit(stmt)))
		s.managed[k] = true
		s.cache[k] = e.EntityState()
		return Succeed(struct{}{})
	})
}

// Remove schedules a delete for e. The entity must be managed in this
// flow — removing a transient entity is a usage error. The outcome
// completes once the action is enqueued.
func Remove(s *Session, e Entity) Async[struct{}] {
	return Defer(func() Async[struct{}] {
		if s.closed {
			return Failed[struct{}](ErrFlowClosed)
		}
		if e == nil {
			return Failed[struct{}](ErrNilEntity)
		}
		k := TargetKey{Entity: e.EntityName(), ID: e.EntityID()}
		if !s.managed[k] {
			return Failed[struct{}](ErrTransientEntity)
		}
		stmt := &Statement{Kind: StmtDelete, Entity: k.Entity, ID: k.ID}
		s.queue.Enqueue(NewAction(ActDelete, k, execUnit(stmt)))
		s.removed[k] = true
		delete(s.cache, k)
		delete(s.managed, k)
		return Succeed(struct{}{})
	})
}

// MarkDirty schedules an update carrying e's current state. The dirty
// checking that decides when to call this belongs to the surrounding
// engine; the entity must be managed in this flow.
func MarkDirty(s *Session, e Entity) Async[struct{}] {
	return Defer(func() Async[struct{}] {
		if s.closed {
			return Failed[struct{}](ErrFlowClosed)
		}
		if e == nil {
			return Failed[struct{}](ErrNilEntity)
		}
		k := TargetKey{Entity: e.EntityName(), ID: e.EntityID()}
		if !s.managed[k] {
			return Failed[struct{}](ErrTransientEntity)
		}
		stmt := &Statement{Kind: StmtUpdate, Entity: k.Entity, ID: k.ID, Values: e.EntityState()}
		s.queue.Enqueue(NewAction(ActUpdate, k, execUnit(stmt)))
		s.cache[k] = e.EntityState()
		return Succeed(struct{}{})
	})
}

// State returns the session's state control surface.
func (s *Session) State() StateControl {
	return StateControl{s: s}
}

// StateControl groups the session-state operations of one flow.
type StateControl struct {
	s *Session
}

// Clear synchronously drops the in-flow cached state: identity cache,
// managed/removed bookkeeping, and all queued actions.
func (sc StateControl) Clear() {
	s := sc.s
	s.cache = make(map[TargetKey]Row)
	s.managed = make(map[TargetKey]bool)
	s.removed = make(map[TargetKey]bool)
	s.queue.Clear()
}

// Flush executes all queued actions in kind order.
func (sc StateControl) Flush() Async[struct{}] {
	return Defer(func() Async[struct{}] {
		if sc.s.closed {
			return Failed[struct{}](ErrFlowClosed)
		}
		return sc.s.queue.Flush()
	})
}

// Refresh discards the cached state of e and re-reads it from the data
// source. Refreshing an entity whose row no longer exists fails with
// ErrNoResult.
func (sc StateControl) Refresh(e Entity) Async[struct{}] {
	return Defer(func() Async[struct{}] {
		s := sc.s
		if s.closed {
			return Failed[struct{}](ErrFlowClosed)
		}
		if e == nil {
			return Failed[struct{}](ErrNilEntity)
		}
		k := TargetKey{Entity: e.EntityName(), ID: e.EntityID()}
		delete(s.cache, k)
		stmt := &Statement{Kind: StmtSelect, Entity: k.Entity, ID: k.ID}
		return withCursor(stmt, func(c Cursor) Async[struct{}] {
			return AndThen(fetchNext(c), func(res Maybe[Row]) Async[struct{}] {
				row, ok := res.GetRight()
				if !ok {
					return Failed[struct{}](ErrNoResult)
				}
				s.cache[k] = row
				s.managed[k] = true
				return Succeed(struct{}{})
			})
		})
	})
}
