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
	"fmt"

	"github.com/containerd/errdefs"

	"github.com/typepool/typepool/core/colors"
)

// All pool errors are structural-integrity violations, detected
// deterministically from the data itself. There are no transient
// conditions to retry; callers treat every one of them as a hard failure
// of the analysis or serialization step. Each typed error unwraps to an
// errdefs class so generic handling (errdefs.IsNotFound etc.) works.

// MalformedRecordError reports a record that violates a structural rule at
// append or freeze time, e.g. a union directly nesting another union.
type MalformedRecordError struct {
	// Index is the pool index of the offending record, or -1 when the
	// record was rejected before an index was assigned.
	Index  int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed record: %s", e.Reason)
	}
	return fmt.Sprintf("malformed record at index %d: %s", e.Index, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return errdefs.ErrInvalidArgument }

// DanglingPointerError reports a pointer that resolves to neither a
// primitive ordinal nor an in-range pool index.
type DanglingPointerError struct {
	Pointer colors.Pointer
	// Record is the index of the containing record, or -1 when the
	// pointer was found in the edge set or the mismatch ledger.
	Record int
	// Where locates the pointer for -1 records, e.g. "edge 4".
	Where string
}

func (e *DanglingPointerError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("dangling pointer %d in record %d", e.Pointer, e.Record)
	}
	return fmt.Sprintf("dangling pointer %d in %s", e.Pointer, e.Where)
}

func (e *DanglingPointerError) Unwrap() error { return errdefs.ErrNotFound }

// OutOfRangePointerError reports a pointer outside the pool's address
// space. Unreachable for pointers taken from a frozen pool; merged or
// deserialized input is untrusted and still hits the check.
type OutOfRangePointerError struct {
	Pointer colors.Pointer
	// Limit is the first invalid pointer value for this pool.
	Limit colors.Pointer
}

func (e *OutOfRangePointerError) Error() string {
	return fmt.Sprintf("pointer %d out of range [0, %d)", e.Pointer, e.Limit)
}

func (e *OutOfRangePointerError) Unwrap() error { return errdefs.ErrOutOfRange }

// AggregationError reports an input pool that cannot be merged.
type AggregationError struct {
	// Pool is the position of the offending input in the caller's order.
	Pool   int
	Reason string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("cannot aggregate pool %d: %s", e.Pool, e.Reason)
}

func (e *AggregationError) Unwrap() error { return errdefs.ErrFailedPrecondition }
