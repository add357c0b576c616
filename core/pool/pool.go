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

package pool

import (
	"slices"

	"github.com/typepool/typepool/core/colors"
)

// Pool is a frozen, validated type pool. It is immutable and safe for
// concurrent readers. Pools only come out of Builder.Freeze, Aggregate or
// the wire decoder, all of which validate pointer closure first.
type Pool struct {
	records    []colors.Record
	edges      []Edge
	mismatches []Mismatch
}

// Len returns the number of records.
func (p *Pool) Len() int {
	return len(p.records)
}

// Limit returns the first pointer value outside this pool's address
// space.
func (p *Pool) Limit() colors.Pointer {
	return colors.PoolPointer(len(p.records))
}

// Get resolves a pointer to a primitive ordinal or a record. Invalid
// input yields OutOfRangePointerError; post-freeze this is unreachable
// for pointers taken from the pool itself, but callers crossing a trust
// boundary (merged or deserialized data) rely on the check.
func (p *Pool) Get(ptr colors.Pointer) (colors.Type, error) {
	if colors.IsPrimitive(ptr) {
		return colors.Primitive(ptr), nil
	}
	if ptr < 0 || colors.PoolIndex(ptr) >= len(p.records) {
		return nil, &OutOfRangePointerError{Pointer: ptr, Limit: p.Limit()}
	}
	return p.records[colors.PoolIndex(ptr)], nil
}

// Records returns the record sequence in index order. The slice is a
// copy; the records themselves are shared and must not be mutated.
func (p *Pool) Records() []colors.Record {
	return slices.Clone(p.records)
}

// Edges returns a copy of the subtyping edge list, multiplicities
// preserved.
func (p *Pool) Edges() []Edge {
	return slices.Clone(p.edges)
}

// Mismatches returns a copy of the debug ledger.
func (p *Pool) Mismatches() []Mismatch {
	out := make([]Mismatch, len(p.mismatches))
	for i, m := range p.mismatches {
		out[i] = Mismatch{SourceRef: m.SourceRef, Involved: slices.Clone(m.Involved)}
	}
	return out
}

// Equal reports debug-excluding structural equality: record sequences
// compare via colors.Equal and edge multisets must match. The mismatch
// ledger and object debug payloads are advisory and never participate.
func (p *Pool) Equal(o *Pool) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.records) != len(o.records) {
		return false
	}
	for i := range p.records {
		if !colors.Equal(p.records[i], o.records[i]) {
			return false
		}
	}
	return slices.Equal(sortedEdges(p.edges), sortedEdges(o.edges))
}

// sortedEdges orders a copy of the edge list for multiset comparison.
// Duplicates are retained; only insertion order is discarded.
func sortedEdges(edges []Edge) []Edge {
	out := slices.Clone(edges)
	slices.SortFunc(out, func(a, b Edge) int {
		if a.Subtype != b.Subtype {
			return int(a.Subtype - b.Subtype)
		}
		return int(a.Supertype - b.Supertype)
	})
	return out
}
