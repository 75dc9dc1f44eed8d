// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package uow

// MetadataKey is an opaque handle to a still-unresolved tabular result
// description. Materializing it may require an asynchronous data-source
// exchange.
type MetadataKey string

// Metadata describes the shape of a raw tabular result.
type Metadata struct {
	Columns []string
}

// Index returns the position of a column, or -1 when absent.
func (m Metadata) Index(column string) int {
	for i, c := range m.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// RowMapper turns one raw row into a typed domain value.
type RowMapper[T any] func(Row) (T, error)

// ResolvedMapping is an executable mapping from raw rows to typed values.
type ResolvedMapping[T any] struct {
	Key     MetadataKey
	Columns Metadata
	mapper  RowMapper[T]
}

// Map applies the mapping to one row.
func (rm ResolvedMapping[T]) Map(r Row) (T, error) {
	return rm.mapper(r)
}

// Mapping is the already-resolved mapping input a read operation consumes
// from the surrounding engine: the dependency space (entity extent) the
// read observes, the metadata handle, and the binder that produces a row
// mapper once the metadata is materialized.
type Mapping[T any] struct {
	Entity string
	Key    MetadataKey
	Bind   func(Metadata) (RowMapper[T], error)
}

// Resolver resolves result mappings asynchronously, at most one metadata
// round trip per distinct handle. Owned by one flow; resolution state is
// only ever touched from that flow's affinity.
type Resolver struct {
	cache map[MetadataKey]Metadata
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[MetadataKey]Metadata)}
}

// Resolve produces the executable mapping for key without blocking the
// caller. The first resolution of a handle performs one FetchMetadata
// round trip; the result is memoized, so re-resolution repeats no side
// effects. A failed resolution is not cached and not retried — the caller
// re-requests explicitly if desired.
func Resolve[T any](r *Resolver, m Mapping[T]) Async[ResolvedMapping[T]] {
	return Defer(func() Async[ResolvedMapping[T]] {
		if md, ok := r.cache[m.Key]; ok {
			return bindMapping(m, md)
		}
		return AndThen(fetchMetadata(m.Key), func(md Metadata) Async[ResolvedMapping[T]] {
			r.cache[m.Key] = md
			return bindMapping(m, md)
		})
	})
}

// ResolveBlocking is the blocking-style resolution entry point. The
// resolver is reactive-only: calling it is a usage error and fails
// immediately with ErrBlockingResolution, signaling that Resolve must be
// used instead.
func ResolveBlocking[T any](r *Resolver, m Mapping[T]) (ResolvedMapping[T], error) {
	var zero ResolvedMapping[T]
	return zero, ErrBlockingResolution
}

func bindMapping[T any](m Mapping[T], md Metadata) Async[ResolvedMapping[T]] {
	mapper, err := m.Bind(md)
	if err != nil {
		return Failed[ResolvedMapping[T]](err)
	}
	return Succeed(ResolvedMapping[T]{Key: m.Key, Columns: md, mapper: mapper})
}
