// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/uow"
)

func TestSingleResultExactlyOne(t *testing.T) {
	d, src, s := newFixture()
	seedAccount(t, d, account{id: 1, name: "alice", bal: 10})

	q := uow.CreateQuery(s, "from account", accountMapping())
	got := runOK(t, src, q.SingleResult())
	if got.name != "alice" || got.bal != 10 {
		t.Fatalf("got %+v", got)
	}
}

func TestSingleResultZeroRows(t *testing.T) {
	_, src, s := newFixture()

	q := uow.CreateQuery(s, "from account", accountMapping())
	err := runErr(t, src, q.SingleResult())
	if !errors.Is(err, uow.ErrNoResult) {
		t.Fatalf("got %v, want ErrNoResult", err)
	}
}

func TestSingleResultManyRows(t *testing.T) {
	d, src, s := newFixture()
	seedAccount(t, d, account{id: 1, name: "alice", bal: 10})
	seedAccount(t, d, account{id: 2, name: "bob", bal: 20})

	q := uow.CreateQuery(s, "from account", accountMapping())
	err := runErr(t, src, q.SingleResult())
	if !errors.Is(err, uow.ErrNonUniqueResult) {
		t.Fatalf("got %v, want ErrNonUniqueResult", err)
	}
}

func TestMaybeResult(t *testing.T) {
	d, src, s := newFixture()

	empty := runOK(t, src, uow.CreateQuery(s, "from account", accountMapping()).MaybeResult())
	if empty.IsRight() {
		t.Fatal("empty extent must yield no value")
	}

	seedAccount(t, d, account{id: 1, name: "alice", bal: 10})
	one := runOK(t, src, uow.CreateQuery(s, "from account", accountMapping()).MaybeResult())
	v, ok := one.GetRight()
	if !ok || v.id != 1 {
		t.Fatalf("got %v/%v, want account 1", v, ok)
	}

	seedAccount(t, d, account{id: 2, name: "bob", bal: 20})
	err := runErr(t, src, uow.CreateQuery(s, "from account", accountMapping()).MaybeResult())
	if !errors.Is(err, uow.ErrNonUniqueResult) {
		t.Fatalf("got %v, want ErrNonUniqueResult", err)
	}
}

func TestQuerySetterValidation(t *testing.T) {
	d, src, s := newFixture()
	seedAccount(t, d, account{id: 1, name: "alice", bal: 10})

	// The first invalid setter poisons the query; later valid calls do
	// not clear it, and the error surfaces at the terminal.
	q := uow.CreateQuery(s, "from account", accountMapping()).
		SetParameter(0, "x").
		SetMaxResults(1)
	err := runErr(t, src, q.SingleResult())
	if !errors.Is(err, uow.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}

	for name, poison := range map[string]func(*uow.Query[account]) *uow.Query[account]{
		"zero max results":   func(q *uow.Query[account]) *uow.Query[account] { return q.SetMaxResults(0) },
		"negative first":     func(q *uow.Query[account]) *uow.Query[account] { return q.SetFirstResult(-1) },
		"empty named":        func(q *uow.Query[account]) *uow.Query[account] { return q.SetParameterNamed("", 1) },
		"empty lock alias":   func(q *uow.Query[account]) *uow.Query[account] { return q.SetLockMode("", uow.LockWrite) },
		"negative parameter": func(q *uow.Query[account]) *uow.Query[account] { return q.SetParameter(-1, 1) },
	} {
		q := poison(uow.CreateQuery(s, "from account", accountMapping()))
		if err := runErr(t, src, q.SingleResult()); !errors.Is(err, uow.ErrInvalidArgument) {
			t.Fatalf("%s: got %v, want ErrInvalidArgument", name, err)
		}
	}
}

func TestQuerySingleUse(t *testing.T) {
	d, src, s := newFixture()
	seedAccount(t, d, account{id: 1, name: "alice", bal: 10})

	q := uow.CreateQuery(s, "from account", accountMapping())
	runOK(t, src, q.SingleResult())

	// Re-execution and post-execution configuration both fail with the
	// executed sentinel, deferred to the next terminal.
	if err := runErr(t, src, q.SingleResult()); !errors.Is(err, uow.ErrQueryExecuted) {
		t.Fatalf("re-execution: got %v, want ErrQueryExecuted", err)
	}
	if err := runErr(t, src, q.SetComment("late").MaybeResult()); !errors.Is(err, uow.ErrQueryExecuted) {
		t.Fatalf("late mutation: got %v, want ErrQueryExecuted", err)
	}
}

func TestQueryResultWindow(t *testing.T) {
	d, src, s := newFixture()
	for i, name := range []string{"alice", "bob", "carol"} {
		seedAccount(t, d, account{id: i + 1, name: name, bal: 10 * (i + 1)})
	}

	q := uow.CreateQuery(s, "from account", accountMapping()).
		SetFirstResult(1).
		SetMaxResults(1)
	got := runOK(t, src, q.SingleResult())
	if got.name != "bob" {
		t.Fatalf("window [1,1) yielded %+v, want bob", got)
	}
}

func TestExecuteUpdate(t *testing.T) {
	d, src, s := newFixture()
	seedAccount(t, d, account{id: 1, name: "alice", bal: 10})
	seedAccount(t, d, account{id: 2, name: "bob", bal: 20})

	q := uow.CreateQuery(s, "delete account", accountMapping())
	n := runOK(t, src, q.ExecuteUpdate())
	if n != 2 {
		t.Fatalf("affected %d rows, want 2", n)
	}
	if left := d.Rows("account"); left != 0 {
		t.Fatalf("%d rows remain, want 0", left)
	}
}

func TestQueryOnClosedSession(t *testing.T) {
	_, src, s := newFixture()
	q := uow.CreateQuery(s, "from account", accountMapping())
	s.Close()

	err := runErr(t, src, q.SingleResult())
	if !errors.Is(err, uow.ErrFlowClosed) {
		t.Fatalf("got %v, want ErrFlowClosed", err)
	}
}
