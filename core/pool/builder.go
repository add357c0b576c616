/*
   Copyright The typepool Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package pool implements the type pool: an append-only arena of type
// records addressed by flat integer pointers, the subtyping edge relation
// and the advisory mismatch ledger, plus freezing, pointer resolution and
// cross-unit aggregation.
//
// A Builder is owned by exactly one analysis pass for one compilation
// unit; it has no internal locking. Freeze validates global pointer
// closure and yields an immutable Pool that is safe for concurrent
// readers.
package pool

import (
	"fmt"

	"github.com/containerd/errdefs"

	"github.com/typepool/typepool/core/colors"
)

// Edge is an ordered (subtype, supertype) pointer pair consumed by
// downstream disambiguation. The relation is general: duplicates and
// self-edges are permitted and their multiplicity is preserved.
type Edge struct {
	Subtype   colors.Pointer
	Supertype colors.Pointer
}

// Mismatch records where the analysis observed diverging types. Purely
// diagnostic; consumers may drop the ledger without losing type
// information.
type Mismatch struct {
	// SourceRef is an opaque string identifying the source location of
	// the divergence.
	SourceRef string
	// Involved are the pointers of the implicated types.
	Involved []colors.Pointer
}

// Builder accumulates records, edges and mismatches for one compilation
// unit. Indices are assigned on append and never reused or reordered.
type Builder struct {
	records    []colors.Record
	edges      []Edge
	mismatches []Mismatch
	frozen     bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds a record and returns its pointer (index + primitive count).
// The record may reference pool positions that have not been appended yet;
// the type graph is cyclic in general and closure is only checked at
// Freeze. A union whose members already resolve to another union is
// rejected here; unions reaching forward are checked at Freeze instead.
func (b *Builder) Append(r colors.Record) (colors.Pointer, error) {
	if b.frozen {
		return 0, fmt.Errorf("append after freeze: %w", errdefs.ErrFailedPrecondition)
	}
	if r == nil {
		return 0, &MalformedRecordError{Index: -1, Reason: "nil record"}
	}
	if u, ok := r.(*colors.Union); ok {
		for _, m := range u.Members {
			if b.resolvesToUnion(m) {
				return 0, &MalformedRecordError{
					Index:  -1,
					Reason: fmt.Sprintf("union member %d is itself a union; flatten before appending", m),
				}
			}
		}
	}
	b.records = append(b.records, r)
	return colors.PoolPointer(len(b.records) - 1), nil
}

// AppendUnionOf builds a union over members, flattening one level: any
// member that already resolves to a union record is replaced by that
// union's members. Members reaching forward cannot be inspected yet and
// are kept as given. Duplicates collapse and the member set is
// canonicalized.
func (b *Builder) AppendUnionOf(members ...colors.Pointer) (colors.Pointer, error) {
	flat := make([]colors.Pointer, 0, len(members))
	for _, m := range members {
		if u := b.unionAt(m); u != nil {
			flat = append(flat, u.Members...)
			continue
		}
		flat = append(flat, m)
	}
	return b.Append(colors.NewUnion(flat...))
}

// AddEdge records a subtype/supertype pair. No deduplication: multiple
// callers may independently witness the same pair and the multiplicity is
// meaningful to them.
func (b *Builder) AddEdge(subtype, supertype colors.Pointer) {
	b.edges = append(b.edges, Edge{Subtype: subtype, Supertype: supertype})
}

// AddMismatch appends a ledger entry.
func (b *Builder) AddMismatch(sourceRef string, involved ...colors.Pointer) {
	m := Mismatch{SourceRef: sourceRef}
	m.Involved = append(m.Involved, involved...)
	b.mismatches = append(b.mismatches, m)
}

// Freeze validates global integrity and returns the immutable pool. Every
// pointer reachable from any record, edge or mismatch must resolve to a
// primitive ordinal or an in-range pool index, and no union may contain a
// union member. The builder is unusable afterwards.
func (b *Builder) Freeze() (*Pool, error) {
	if b.frozen {
		return nil, fmt.Errorf("already frozen: %w", errdefs.ErrFailedPrecondition)
	}
	if err := validate(b.records, b.edges, b.mismatches); err != nil {
		return nil, err
	}
	b.frozen = true
	return &Pool{
		records:    b.records,
		edges:      b.edges,
		mismatches: b.mismatches,
	}, nil
}

// Len returns the number of appended records.
func (b *Builder) Len() int {
	return len(b.records)
}

func (b *Builder) resolvesToUnion(p colors.Pointer) bool {
	return b.unionAt(p) != nil
}

// unionAt returns the already-appended union addressed by p, or nil.
func (b *Builder) unionAt(p colors.Pointer) *colors.Union {
	if colors.IsPrimitive(p) {
		return nil
	}
	idx := colors.PoolIndex(p)
	if idx < 0 || idx >= len(b.records) {
		return nil
	}
	u, _ := b.records[idx].(*colors.Union)
	return u
}

// validate checks pointer closure and the nested-union invariant over a
// complete record set. Shared by Freeze and the aggregator.
func validate(records []colors.Record, edges []Edge, mismatches []Mismatch) error {
	valid := func(p colors.Pointer) bool {
		return colors.IsPrimitive(p) || (p >= colors.PrimitiveCount && colors.PoolIndex(p) < len(records))
	}
	for i, r := range records {
		var bad *colors.Pointer
		colors.VisitPointers(r, func(p colors.Pointer) {
			if bad == nil && !valid(p) {
				p := p
				bad = &p
			}
		})
		if bad != nil {
			return &DanglingPointerError{Pointer: *bad, Record: i}
		}
		if u, ok := r.(*colors.Union); ok {
			for _, m := range u.Members {
				if colors.IsPrimitive(m) {
					continue
				}
				if _, nested := records[colors.PoolIndex(m)].(*colors.Union); nested {
					return &MalformedRecordError{
						Index:  i,
						Reason: fmt.Sprintf("union member %d is itself a union", m),
					}
				}
			}
		}
	}
	for i, e := range edges {
		for _, p := range []colors.Pointer{e.Subtype, e.Supertype} {
			if !valid(p) {
				return &DanglingPointerError{Pointer: p, Record: -1, Where: fmt.Sprintf("edge %d", i)}
			}
		}
	}
	for i, m := range mismatches {
		for _, p := range m.Involved {
			if !valid(p) {
				return &DanglingPointerError{Pointer: p, Record: -1, Where: fmt.Sprintf("mismatch %d", i)}
			}
		}
	}
	return nil
}
