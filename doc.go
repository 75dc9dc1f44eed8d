// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package uow provides a reactive unit-of-work persistence core via algebraic
// effects on [code.hybscloud.com/kont].
//
// Persistence operations (find, persist, remove, query) return asynchronous
// outcomes instead of blocked-thread results. Mutating operations are deferred
// as ordered actions and executed at a flush point; reads resolve their row
// mapping asynchronously and pull rows one at a time from the data source.
//
// # Architecture
//
//   - Asynchrony: every operation is an [Async] computation. Data-source round
//     trips (open cursor, fetch row, execute statement, fetch metadata) are
//     effect operations dispatched on a [Source]; dispatch is non-blocking and
//     returns [code.hybscloud.com/iox.ErrWouldBlock] at the I/O boundary.
//   - Unit of work: a [Session] records writes as [Action] values in an
//     [ActionQueue]; [StateControl.Flush] executes them in fixed kind order
//     (insert, update, collection, delete), aborting on first failure.
//   - Failure channel: outcomes carry [code.hybscloud.com/kont.Either] — Left
//     for failures, Right for values. Nothing is thrown across a suspension
//     point.
//   - Flow affinity: one [Context] owns the transient state of one logical
//     flow. Caches, cursors, and the action queue are never shared across
//     flows; concurrency across flows is unconstrained.
//
// # API Topologies
//
//   - Session: [Find], [Persist], [Remove], [MarkDirty], [CreateQuery],
//     [Session.State] for [StateControl.Clear], [StateControl.Refresh],
//     [StateControl.Flush].
//   - Query: chainable configuration ([Query.SetParameter],
//     [Query.SetMaxResults], ...), terminal methods [Query.SingleResult],
//     [Query.MaybeResult], [Query.ResultsFlow], [Query.ExecuteUpdate].
//   - Mapping: [Resolve] turns a metadata handle into a [ResolvedMapping]
//     asynchronously and idempotently; [ResolveBlocking] always fails with
//     [ErrBlockingResolution] — the resolver is reactive-only.
//   - Context: [Context.Put], [Context.Get], [Context.Remove], [Execute].
//
// # Integration
//
//   - Stepping: [Step] and [Advance] evaluate outcomes one effect at a time,
//     making them easy to integrate with a proactor loop.
//   - Blocking: [Exec] waits past I/O boundaries using adaptive backoff.
//   - Drivers: [Driver] is the data-source collaborator contract. [MemDriver]
//     is a bundled in-memory implementation whose cursors deliver rows through
//     bounded lock-free SPSC queues from [code.hybscloud.com/lfq].
//
// # Example
//
//	src := uow.NewSource(uow.NewMemDriver())
//	s := uow.NewSession(nil, src, uow.NewResolver())
//	unit := uow.AndThen(uow.Persist(s, account), func(struct{}) uow.Async[struct{}] {
//		return s.State().Flush()
//	})
//	result := uow.Exec(src, unit) // kont.Either[error, struct{}]
package uow
