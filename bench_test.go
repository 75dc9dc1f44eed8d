// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow_test

import (
	"testing"

	"code.hybscloud.com/uow"
)

func BenchmarkContextPutGet(b *testing.B) {
	ctx := uow.NewContext()
	b.ReportAllocs()
	for b.Loop() {
		ctx.Put("k", 1)
		_, _ = ctx.Get("k")
	}
}

func BenchmarkQueueFlush(b *testing.B) {
	_, src, _ := newFixture()
	b.ReportAllocs()
	for b.Loop() {
		var q uow.ActionQueue
		for i := 0; i < 8; i++ {
			target := uow.TargetKey{Entity: "e", ID: i}
			q.Enqueue(uow.NewAction(uow.ActInsert, target, uow.Succeed(struct{}{})))
		}
		if err, ok := uow.Exec(src, q.Flush()).GetLeft(); ok {
			b.Fatal(err)
		}
	}
}

func BenchmarkFindCacheHit(b *testing.B) {
	d, src, s := newFixture()
	a := account{id: 1, name: "alice", bal: 10}
	stmt := &uow.Statement{Kind: uow.StmtInsert, Entity: "account", ID: a.id, Values: a.EntityState()}
	if _, err := d.Execute(stmt); err != nil {
		b.Fatal(err)
	}
	if err, ok := uow.Exec(src, uow.Find(s, accountMapping(), 1)).GetLeft(); ok {
		b.Fatal(err)
	}

	m := accountMapping()
	b.ReportAllocs()
	for b.Loop() {
		e := uow.Exec(src, uow.Find(s, m, 1))
		if err, ok := e.GetLeft(); ok {
			b.Fatal(err)
		}
	}
}
