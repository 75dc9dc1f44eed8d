// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

// ActionQueue owns the ordered, per-kind grouping of pending actions for
// one flow. Enqueue is O(1) and never blocks; Flush executes everything in
// kind order. The queue must never be touched from another flow.
type ActionQueue struct {
	inserts     []Action
	updates     []Action
	collections []Action
	deletes     []Action
}

// Enqueue appends a to the group matching its kind.
func (q *ActionQueue) Enqueue(a Action) {
	switch a.Kind {
	case ActInsert:
		q.inserts = append(q.inserts, a)
	case ActUpdate:
		q.updates = append(q.updates, a)
	case ActCollection:
		q.collections = append(q.collections, a)
	case ActDelete:
		q.deletes = append(q.deletes, a)
	default:
		panic("uow: unknown action kind")
	}
}

// Pending reports the number of queued actions.
func (q *ActionQueue) Pending() int {
	return len(q.inserts) + len(q.updates) + len(q.collections) + len(q.deletes)
}

// Touches reports whether any queued action targets the given entity
// extent. The auto-flush check intersects a read's dependency spaces with
// this.
func (q *ActionQueue) Touches(entity string) bool {
	for _, group := range [][]Action{q.inserts, q.updates, q.collections, q.deletes} {
		for _, a := range group {
			if a.Target.Entity == entity {
				return true
			}
		}
	}
	return false
}

// Clear discards all queued actions without executing them.
func (q *ActionQueue) Clear() {
	q.inserts = nil
	q.updates = nil
	q.collections = nil
	q.deletes = nil
}

// drain snapshots the flush plan in kind order and empties the queue.
// Draining up front gives the failure policy for free: whether the flush
// succeeds or aborts, the queue is empty afterwards, and no action can run
// twice.
func (q *ActionQueue) drain() []Action {
	plan := make([]Action, 0, q.Pending())
	plan = append(plan, q.inserts...)
	plan = append(plan, q.updates...)
	plan = append(plan, q.collections...)
	plan = append(plan, q.deletes...)
	q.Clear()
	return plan
}

// Flush executes all queued actions: earlier kind groups complete before
// later ones begin, and within a group actions run in enqueue order.
// The first failure abandons every unexecuted action and fails the outcome
// with the triggering error; partial completion of earlier actions is
// retained — rollback belongs to the data-source transaction, not here.
func (q *ActionQueue) Flush() Async[struct{}] {
	return Defer(func() Async[struct{}] {
		return runPlan(q.drain())
	})
}

// runPlan executes the drained flush plan front to back.
// AndThen short-circuits on the first Left, abandoning the tail.
func runPlan(plan []Action) Async[struct{}] {
	if len(plan) == 0 {
		return Succeed(struct{}{})
	}
	head := plan[0]
	return AndThen(head.Exec, func(struct{}) Async[struct{}] {
		return runPlan(plan[1:])
	})
}
