// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

// Key identifies one association slot in a Context.
type Key string

// Well-known context keys. AutoFlushKey is the one external policy input
// this core consults: when set to true, reads flush intersecting pending
// writes first. The default (absent) is no auto-flush.
const (
	SessionKey          Key = "uow.session"
	StatelessSessionKey Key = "uow.stateless-session"
	AutoFlushKey        Key = "uow.auto-flush"
)

// Context binds transient session state to one logical asynchronous flow.
// It replaces call-stack locality: continuations reach session-scoped values
// through the Context they were built under, not through the goroutine that
// happens to run them.
//
// A Context is owned by exactly one flow and is not safe for cross-flow
// sharing. At most one value is associated with a key at a time;
// association is last-write-wins.
type Context struct {
	assoc  map[Key]any
	serial Serial
}

// NewContext creates an empty Context with a fresh flow serial.
func NewContext() *Context {
	return &Context{
		assoc:  make(map[Key]any),
		serial: nextFlowSerial(),
	}
}

// Serial returns the flow serial assigned to this context.
func (c *Context) Serial() Serial {
	return c.serial
}

// Put stores v under k, overwriting any prior association.
func (c *Context) Put(k Key, v any) {
	c.assoc[k] = v
}

// Get retrieves the current association for k.
// A missing key is absence, never an error.
func (c *Context) Get(k Key) (any, bool) {
	v, ok := c.assoc[k]
	return v, ok
}

// Remove drops the association for k. No-op when absent.
func (c *Context) Remove(k Key) {
	delete(c.assoc, k)
}

// Execute runs unit under ctx. If ctx is nil — no context is active on the
// calling flow — a fresh Context is created for the duration of the unit.
// A non-nil ctx is reused as-is, so nested Execute calls within an active
// context observe the same associations as the outer call.
func Execute[R any](ctx *Context, unit func(*Context) R) R {
	if ctx == nil {
		ctx = NewContext()
	}
	return unit(ctx)
}
