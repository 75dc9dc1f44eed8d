// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/kont"
)

// Driver is the data-source collaborator contract: an asynchronous
// row-fetch capability, an asynchronous metadata-handle capability, and an
// asynchronous statement-execution capability returning an affected-row
// count. Every method is non-blocking and returns iox.ErrWouldBlock while
// the underlying exchange has not completed; any other error is a
// data-source failure delivered to the flow in-band.
//
// Connection acquisition, SQL generation, and row encoding all live behind
// this interface — the core is agnostic to them.
type Driver interface {
	OpenCursor(stmt *Statement) (Cursor, error)
	FetchRow(c Cursor) (Row, error)
	CloseCursor(c Cursor) error
	Execute(stmt *Statement) (int64, error)
	Metadata(h MetadataKey) (Metadata, error)
}

// sourceContext holds the dispatch state for a single flow's data source.
// Owned by one flow; dispatch on it never runs concurrently with another
// dispatch for the same flow.
type sourceContext struct {
	driver Driver
	closed *atomix.Uint32
}

// sourceDispatcher is the structural interface for data-source operations.
// DispatchSource is non-blocking: it returns iox.ErrWouldBlock at the I/O
// boundary when the underlying exchange cannot make progress.
type sourceDispatcher interface {
	DispatchSource(ctx *sourceContext) (kont.Resumed, error)
}

// Source is one flow's attachment to a data source. It is held only for
// the scope of the operations dispatched through it; the connection behind
// the Driver belongs to an external pool.
type Source struct {
	ctx    sourceContext
	closed atomix.Uint32
	serial Serial
}

// NewSource attaches a driver and assigns a flow serial.
func NewSource(d Driver) *Source {
	src := &Source{serial: nextFlowSerial()}
	src.ctx = sourceContext{
		driver: d,
		closed: &src.closed,
	}
	return src
}

// Serial returns the serial number assigned to this source.
func (src *Source) Serial() Serial {
	return src.serial
}

// Close marks the flow closed. Operations already dispatched run to
// completion or failure; further dispatch resumes with ErrFlowClosed.
func (src *Source) Close() {
	src.closed.Add(1)
}
