// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

// Row is one raw tabular result row. Column positions are interpreted
// through a Metadata obtained from the resolver; the core never inspects
// row contents itself.
type Row []any

// Cursor identifies one open row stream on a Driver.
type Cursor = uint32

// StatementKind tags an already-resolved statement.
type StatementKind uint8

const (
	StmtSelect StatementKind = iota
	StmtInsert
	StmtUpdate
	StmtDelete
	StmtBulk
)

// LockMode is the per-alias lock level carried on a statement.
// Interpretation belongs to the data source.
type LockMode uint8

const (
	LockNone LockMode = iota
	LockRead
	LockWrite
)

// CacheMode is the interaction policy with a second-level cache.
// Interpretation belongs to the data source.
type CacheMode uint8

const (
	CacheNormal CacheMode = iota
	CacheIgnore
	CacheRefresh
)

// Statement is an already-resolved statement against the data source.
// The surrounding engine produces its text and shape; this core only
// stamps configuration (parameters, window, modes) and hands it to a
// Driver. Nothing here is parsed or generated.
type Statement struct {
	Kind      StatementKind
	Entity    string
	ID        any
	Values    Row
	Text      string
	Comment   string
	Ordinals  map[int]any
	Named     map[string]any
	First     int
	Max       int
	ReadOnly  bool
	LockModes map[string]LockMode
	CacheMode CacheMode
}
