// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/uow"
)

// logAction records its execution into log when the flush runs it.
func logAction(kind uow.ActionKind, id string, log *[]string) uow.Action {
	target := uow.TargetKey{Entity: "e", ID: id}
	exec := uow.Defer(func() uow.Async[struct{}] {
		*log = append(*log, kind.String()+":"+id)
		return uow.Succeed(struct{}{})
	})
	return uow.NewAction(kind, target, exec)
}

// failAction fails the flush when reached.
func failAction(kind uow.ActionKind, id string, err error) uow.Action {
	target := uow.TargetKey{Entity: "e", ID: id}
	return uow.NewAction(kind, target, uow.Failed[struct{}](err))
}

func TestFlushKindOrder(t *testing.T) {
	_, src, _ := newFixture()
	var q uow.ActionQueue
	var log []string

	// Enqueue interleaved across kinds; flush must regroup.
	q.Enqueue(logAction(uow.ActDelete, "a", &log))
	q.Enqueue(logAction(uow.ActInsert, "b", &log))
	q.Enqueue(logAction(uow.ActUpdate, "a", &log))
	q.Enqueue(logAction(uow.ActCollection, "b", &log))

	runOK(t, src, q.Flush())

	want := []string{"insert:b", "update:a", "collection:b", "delete:a"}
	if len(log) != len(want) {
		t.Fatalf("executed %d actions, want %d", len(log), len(want))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("position %d got %q, want %q", i, log[i], want[i])
		}
	}
	if q.Pending() != 0 {
		t.Fatalf("queue not empty after flush: %d pending", q.Pending())
	}
}

func TestFlushEnqueueOrderWithinKind(t *testing.T) {
	_, src, _ := newFixture()
	var q uow.ActionQueue
	var log []string

	q.Enqueue(logAction(uow.ActInsert, "1", &log))
	q.Enqueue(logAction(uow.ActInsert, "2", &log))
	q.Enqueue(logAction(uow.ActInsert, "3", &log))

	runOK(t, src, q.Flush())

	want := []string{"insert:1", "insert:2", "insert:3"}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("position %d got %q, want %q", i, log[i], want[i])
		}
	}
}

func TestFlushAbortOnFailure(t *testing.T) {
	_, src, _ := newFixture()
	var q uow.ActionQueue
	var log []string
	boom := errors.New("constraint violation")

	q.Enqueue(logAction(uow.ActInsert, "1", &log))
	q.Enqueue(failAction(uow.ActInsert, "2", boom))
	q.Enqueue(logAction(uow.ActInsert, "3", &log))
	q.Enqueue(logAction(uow.ActDelete, "4", &log))

	err := runErr(t, src, q.Flush())
	if !errors.Is(err, boom) {
		t.Fatalf("flush error got %v, want %v", err, boom)
	}
	// Only the action before the failure executed; the rest were abandoned.
	if len(log) != 1 || log[0] != "insert:1" {
		t.Fatalf("executed %v, want [insert:1]", log)
	}
	if q.Pending() != 0 {
		t.Fatalf("queue must be empty after aborted flush, %d pending", q.Pending())
	}
}

func TestClearDiscardsWithoutExecuting(t *testing.T) {
	_, src, _ := newFixture()
	var q uow.ActionQueue
	var log []string

	q.Enqueue(logAction(uow.ActInsert, "1", &log))
	q.Enqueue(logAction(uow.ActDelete, "2", &log))
	q.Clear()

	if q.Pending() != 0 {
		t.Fatalf("queue not empty after Clear: %d pending", q.Pending())
	}
	runOK(t, src, q.Flush())
	if len(log) != 0 {
		t.Fatalf("cleared actions must not execute, ran %v", log)
	}
}

func TestFlushEmptyQueue(t *testing.T) {
	_, src, _ := newFixture()
	var q uow.ActionQueue
	runOK(t, src, q.Flush())
}

func TestTouches(t *testing.T) {
	var q uow.ActionQueue
	q.Enqueue(uow.NewAction(uow.ActInsert, uow.TargetKey{Entity: "account", ID: 1}, uow.Succeed(struct{}{})))

	if !q.Touches("account") {
		t.Fatal("queue should touch the account extent")
	}
	if q.Touches("order") {
		t.Fatal("queue should not touch an unrelated extent")
	}
}

// Delete(A), Insert(B), Update(A) enqueued in that order: insert executes
// first and the delete always runs last among kinds, regardless of the
// enqueue interleaving.
func TestFlushDeleteInsertUpdateScenario(t *testing.T) {
	_, src, _ := newFixture()
	var q uow.ActionQueue
	var log []string

	q.Enqueue(logAction(uow.ActDelete, "A", &log))
	q.Enqueue(logAction(uow.ActInsert, "B", &log))
	q.Enqueue(logAction(uow.ActUpdate, "A", &log))

	runOK(t, src, q.Flush())

	if log[0] != "insert:B" {
		t.Fatalf("first executed %q, want insert:B", log[0])
	}
	if log[len(log)-1] != "delete:A" {
		t.Fatalf("last executed %q, want delete:A", log[len(log)-1])
	}
}
