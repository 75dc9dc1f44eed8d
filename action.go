// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

// ActionKind tags a deferred mutating operation. The declaration order is
// the flush order: inserts first, then updates, then collection actions
// alongside the entities they depend on, deletes last.
type ActionKind uint8

const (
	ActInsert ActionKind = iota
	ActUpdate
	ActCollection
	ActDelete
)

// String names the kind for diagnostics.
func (k ActionKind) String() string {
	switch k {
	case ActInsert:
		return "insert"
	case ActUpdate:
		return "update"
	case ActCollection:
		return "collection"
	case ActDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// TargetKey identifies one action target: an entity extent plus identity.
// ID must be comparable.
type TargetKey struct {
	Entity string
	ID     any
}

// Action is one deferred mutating operation awaiting flush. Ordering is by
// kind then by sequence number; no general comparison contract is needed.
// Once enqueued, an Action executes at most once.
type Action struct {
	Kind   ActionKind
	Target TargetKey
	Seq    Serial
	Exec   Async[struct{}]
}

// NewAction builds an Action with the next monotonic sequence number.
func NewAction(kind ActionKind, target TargetKey, exec Async[struct{}]) Action {
	return Action{
		Kind:   kind,
		Target: target,
		Seq:    nextActionSeq(),
		Exec:   exec,
	}
}
