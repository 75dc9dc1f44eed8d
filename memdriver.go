// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// cursorWindow is the bounded capacity of a cursor's row queue.
// At most this many rows are materialized ahead of the consumer;
// the window is the stream's backpressure budget.
const cursorWindow = 4

// memTable keeps rows in insertion order alongside the identity index,
// so cursors deliver rows deterministically.
type memTable struct {
	order []any
	rows  map[any]Row
}

// memCursor is one open row stream. Rows move from the pending snapshot
// into a bounded lock-free SPSC queue as the consumer drains it.
type memCursor struct {
	pending []Row
	buf     lfq.SPSC[Row]
	slot    Row
}

// pump refills the bounded queue from the pending snapshot.
func (c *memCursor) pump() {
	for len(c.pending) > 0 {
		c.slot = c.pending[0]
		if err := c.buf.Enqueue(&c.slot); err != nil {
			return
		}
		c.pending = c.pending[1:]
	}
}

// MemDriver is a bundled in-memory Driver. It backs the package tests and
// serves as the reference for the non-blocking driver contract: cursors
// deliver rows through bounded SPSC queues, and a configurable stall makes
// any call report iox.ErrWouldBlock to exercise retry paths.
//
// Like every per-flow collaborator in this package, a MemDriver instance
// is owned by one flow.
type MemDriver struct {
	tables       map[string]*memTable
	meta         map[MetadataKey]Metadata
	metaFetches  map[MetadataKey]int
	cursors      map[Cursor]*memCursor
	cursorSerial atomix.Uint32
	stall        int
	execFault    error
	fetchFault   error
}

// NewMemDriver creates an empty in-memory driver.
func NewMemDriver() *MemDriver {
	return &MemDriver{
		tables:      make(map[string]*memTable),
		meta:        make(map[MetadataKey]Metadata),
		metaFetches: make(map[MetadataKey]int),
		cursors:     make(map[Cursor]*memCursor),
	}
}

// RegisterMetadata installs the metadata a FetchMetadata effect resolves
// for key.
func (d *MemDriver) RegisterMetadata(key MetadataKey, md Metadata) {
	d.meta[key] = md
}

// MetadataFetches reports how many FetchMetadata round trips were served
// for key.
func (d *MemDriver) MetadataFetches(key MetadataKey) int {
	return d.metaFetches[key]
}

// StallNext makes the next n driver calls report iox.ErrWouldBlock before
// succeeding, simulating in-flight exchanges.
func (d *MemDriver) StallNext(n int) {
	d.stall = n
}

// FailNextExecute makes the next Execute fail with err.
func (d *MemDriver) FailNextExecute(err error) {
	d.execFault = err
}

// FailNextFetch makes the next FetchRow fail with err.
func (d *MemDriver) FailNextFetch(err error) {
	d.fetchFault = err
}

// Rows reports the number of stored rows for an entity.
func (d *MemDriver) Rows(entity string) int {
	t := d.tables[entity]
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// CursorsOpened reports how many cursors have been opened so far.
func (d *MemDriver) CursorsOpened() int {
	return int(d.cursorSerial.Load())
}

func (d *MemDriver) wouldBlock() bool {
	if d.stall > 0 {
		d.stall--
		return true
	}
	return false
}

func (d *MemDriver) table(entity string) *memTable {
	t := d.tables[entity]
	if t == nil {
		t = &memTable{rows: make(map[any]Row)}
		d.tables[entity] = t
	}
	return t
}

// OpenCursor snapshots the qualifying rows of stmt in insertion order and
// applies the statement's result window.
func (d *MemDriver) OpenCursor(stmt *Statement) (Cursor, error) {
	if d.wouldBlock() {
		return 0, iox.ErrWouldBlock
	}
	t := d.table(stmt.Entity)
	var snapshot []Row
	if stmt.ID != nil {
		if r, ok := t.rows[stmt.ID]; ok {
			snapshot = []Row{r}
		}
	} else {
		snapshot = make([]Row, 0, len(t.order))
		for _, id := range t.order {
			snapshot = append(snapshot, t.rows[id])
		}
	}
	if stmt.First > 0 {
		if stmt.First >= len(snapshot) {
			snapshot = nil
		} else {
			snapshot = snapshot[stmt.First:]
		}
	}
	if stmt.Max > 0 && stmt.Max < len(snapshot) {
		snapshot = snapshot[:stmt.Max]
	}
	cur := &memCursor{pending: snapshot}
	cur.buf.Init(cursorWindow)
	c := d.cursorSerial.Add(1)
	d.cursors[c] = cur
	return c, nil
}

// FetchRow delivers the next row of cursor c, or ErrEndOfRows.
func (d *MemDriver) FetchRow(c Cursor) (Row, error) {
	if d.wouldBlock() {
		return nil, iox.ErrWouldBlock
	}
	if d.fetchFault != nil {
		err := d.fetchFault
		d.fetchFault = nil
		return nil, err
	}
	cur := d.cursors[c]
	if cur == nil {
		return nil, fmt.Errorf("uow: unknown cursor %d", c)
	}
	cur.pump()
	r, err := cur.buf.Dequeue()
	if err != nil {
		if len(cur.pending) == 0 {
			return nil, ErrEndOfRows
		}
		return nil, iox.ErrWouldBlock
	}
	return r, nil
}

// CloseCursor releases cursor c. Closing an unknown cursor is a no-op.
func (d *MemDriver) CloseCursor(c Cursor) error {
	if d.wouldBlock() {
		return iox.ErrWouldBlock
	}
	delete(d.cursors, c)
	return nil
}

// Execute applies a mutating statement and reports the affected-row count.
// A nil statement ID addresses the whole entity extent (bulk form).
func (d *MemDriver) Execute(stmt *Statement) (int64, error) {
	if d.wouldBlock() {
		return 0, iox.ErrWouldBlock
	}
	if d.execFault != nil {
		err := d.execFault
		d.execFault = nil
		return 0, err
	}
	t := d.table(stmt.Entity)
	switch stmt.Kind {
	case StmtInsert:
		if _, ok := t.rows[stmt.ID]; ok {
			return 0, fmt.Errorf("uow: duplicate identity %v for %s", stmt.ID, stmt.Entity)
		}
		t.order = append(t.order, stmt.ID)
		t.rows[stmt.ID] = stmt.Values
		return 1, nil
	case StmtUpdate:
		if stmt.ID == nil {
			return int64(len(t.rows)), nil
		}
		if _, ok := t.rows[stmt.ID]; !ok {
			return 0, nil
		}
		t.rows[stmt.ID] = stmt.Values
		return 1, nil
	case StmtDelete, StmtBulk:
		if stmt.ID == nil {
			n := int64(len(t.rows))
			t.order = nil
			t.rows = make(map[any]Row)
			return n, nil
		}
		if _, ok := t.rows[stmt.ID]; !ok {
			return 0, nil
		}
		delete(t.rows, stmt.ID)
		for i, id := range t.order {
			if id == stmt.ID {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("uow: non-mutating statement kind %d", stmt.Kind)
	}
}

// Metadata materializes the metadata handle for key.
func (d *MemDriver) Metadata(key MetadataKey) (Metadata, error) {
	if d.wouldBlock() {
		return Metadata{}, iox.ErrWouldBlock
	}
	md, ok := d.meta[key]
	if !ok {
		return Metadata{}, fmt.Errorf("uow: unknown metadata handle %q", key)
	}
	d.metaFetches[key]++
	return md, nil
}
