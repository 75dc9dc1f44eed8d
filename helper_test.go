// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/uow"
)

// account is the test entity. Its row layout matches accountMetadata.
type account struct {
	id   int
	name string
	bal  int
}

func (a account) EntityName() string { return "account" }

func (a account) EntityID() any { return a.id }

func (a account) EntityState() uow.Row { return uow.Row{a.id, a.name, a.bal} }

const accountKey uow.MetadataKey = "account.mapping"

func accountMetadata() uow.Metadata {
	return uow.Metadata{Columns: []string{"id", "name", "balance"}}
}

// accountMapping is the already-resolved mapping input a surrounding
// engine would hand to the core.
func accountMapping() uow.Mapping[account] {
	return uow.Mapping[account]{
		Entity: "account",
		Key:    accountKey,
		Bind: func(md uow.Metadata) (uow.RowMapper[account], error) {
			idIdx := md.Index("id")
			nameIdx := md.Index("name")
			balIdx := md.Index("balance")
			return func(r uow.Row) (account, error) {
				return account{
					id:   r[idIdx].(int),
					name: r[nameIdx].(string),
					bal:  r[balIdx].(int),
				}, nil
			}, nil
		},
	}
}

// newFixture assembles a driver, source, and session for one test flow.
func newFixture() (*uow.MemDriver, *uow.Source, *uow.Session) {
	d := uow.NewMemDriver()
	d.RegisterMetadata(accountKey, accountMetadata())
	src := uow.NewSource(d)
	s := uow.NewSession(nil, src, uow.NewResolver())
	return d, src, s
}

// seedAccount stores a row directly on the driver, bypassing the session.
func seedAccount(tb testing.TB, d *uow.MemDriver, a account) {
	tb.Helper()
	stmt := &uow.Statement{Kind: uow.StmtInsert, Entity: "account", ID: a.id, Values: a.EntityState()}
	if _, err := d.Execute(stmt); err != nil {
		tb.Fatalf("seed %v: %v", a.id, err)
	}
}

// runOK evaluates an outcome to completion and fails the test on Left.
func runOK[T any](tb testing.TB, src *uow.Source, m uow.Async[T]) T {
	tb.Helper()
	e := uow.Exec(src, m)
	if err, ok := e.GetLeft(); ok {
		tb.Fatalf("unexpected failure: %v", err)
	}
	v, _ := e.GetRight()
	return v
}

// runErr evaluates an outcome expected to fail and returns the error.
func runErr[T any](tb testing.TB, src *uow.Source, m uow.Async[T]) error {
	tb.Helper()
	e := uow.Exec(src, m)
	err, ok := e.GetLeft()
	if !ok {
		tb.Fatalf("expected failure, got success")
	}
	return err
}

// stepDrain drives an outcome to completion via Step+Advance loop.
// Retries on iox.ErrWouldBlock (exchange still in flight).
// Used by stepping tests to exercise the non-blocking path.
func stepDrain[R any](src *uow.Source, m kont.Eff[R]) R {
	result, susp := uow.Step(m)
	for susp != nil {
		var err error
		result, susp, err = uow.Advance(src, susp)
		if err != nil {
			continue
		}
	}
	return result
}
