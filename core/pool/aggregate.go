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
	"github.com/typepool/typepool/core/colors"
)

// Aggregate merges independently frozen pools into one pointer space for
// cross-unit analysis. The caller supplies the order, and the same order
// yields bit-identical pointer assignments, so reproducible output only
// needs a stable ordering contract (e.g. unit compilation order).
//
// Primitives are identity-mapped: the registry is fixed and shared by all
// inputs. Every pool-local pointer of input k is shifted by the number of
// records already placed from inputs 0..k-1; records, edges and
// mismatches are appended in input order with their pointers rewritten.
// The output is frozen on construction and never mutated.
//
// Only frozen pools can be merged; a nil input (the only way an unfrozen
// pool can reach this API) yields AggregationError.
func Aggregate(pools ...*Pool) (*Pool, error) {
	for i, p := range pools {
		if p == nil {
			return nil, &AggregationError{Pool: i, Reason: "pool is not frozen"}
		}
	}

	var (
		records    []colors.Record
		edges      []Edge
		mismatches []Mismatch
	)
	for _, p := range pools {
		// Shifting by the running record count keeps primitives fixed:
		// rewritten = local - P + offset + P = local + offset.
		offset := colors.Pointer(len(records))
		rewrite := func(ptr colors.Pointer) colors.Pointer {
			if colors.IsPrimitive(ptr) {
				return ptr
			}
			return ptr + offset
		}
		for _, r := range p.records {
			records = append(records, colors.MapPointers(r, rewrite))
		}
		for _, e := range p.edges {
			edges = append(edges, Edge{
				Subtype:   rewrite(e.Subtype),
				Supertype: rewrite(e.Supertype),
			})
		}
		for _, m := range p.mismatches {
			involved := make([]colors.Pointer, len(m.Involved))
			for i, ptr := range m.Involved {
				involved[i] = rewrite(ptr)
			}
			mismatches = append(mismatches, Mismatch{SourceRef: m.SourceRef, Involved: involved})
		}
	}

	// Inputs were individually frozen and offsetting preserves closure,
	// but the inputs may have crossed a trust boundary since.
	if err := validate(records, edges, mismatches); err != nil {
		return nil, err
	}
	return &Pool{records: records, edges: edges, mismatches: mismatches}, nil
}
