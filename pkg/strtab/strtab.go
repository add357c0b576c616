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

// Package strtab implements the interned string table that travels next to
// a type pool. Property names and debug typenames are stored once here and
// referenced from type records by offset, keeping the records themselves
// free of string payloads.
package strtab

import (
	"fmt"

	"github.com/containerd/errdefs"
	"google.golang.org/protobuf/encoding/protowire"
)

// Ref is an offset into a Table. Refs are opaque to the pool layer; two
// pools only share refs if they share a table.
type Ref uint32

// Table interns strings and hands out stable offsets. The zero value is
// ready to use. A Table is not safe for concurrent mutation; like a pool
// builder it is owned by a single analysis pass.
type Table struct {
	strings []string
	index   map[string]Ref
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]Ref)}
}

// Intern returns the offset of s, adding it on first sight. Offsets are
// assigned sequentially from 0 and never reused.
func (t *Table) Intern(s string) Ref {
	if t.index == nil {
		t.index = make(map[string]Ref)
	}
	if ref, ok := t.index[s]; ok {
		return ref
	}
	ref := Ref(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[s] = ref
	return ref
}

// Lookup resolves an offset back to its string.
func (t *Table) Lookup(ref Ref) (string, bool) {
	if int(ref) >= len(t.strings) {
		return "", false
	}
	return t.strings[int(ref)], true
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	return len(t.strings)
}

// Strings returns a copy of the table contents in offset order.
func (t *Table) Strings() []string {
	out := make([]string, len(t.strings))
	copy(out, t.strings)
	return out
}

// Wire format: field 1 holds each interned string, in offset order.
const fieldString = 1

// Marshal encodes the table so tooling can persist it next to a pool.
func (t *Table) Marshal() []byte {
	var b []byte
	for _, s := range t.strings {
		b = protowire.AppendTag(b, fieldString, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

// Unmarshal decodes a table produced by Marshal. Unknown fields are
// skipped so newer writers remain readable.
func Unmarshal(data []byte) (*Table, error) {
	t := NewTable()
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("string table: bad tag: %w", errdefs.ErrInvalidArgument)
		}
		data = data[n:]
		if num == fieldString && typ == protowire.BytesType {
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, fmt.Errorf("string table: truncated entry: %w", errdefs.ErrInvalidArgument)
			}
			data = data[n:]
			// Duplicate entries collapse to the first offset; Marshal
			// never emits them but foreign writers might.
			t.strings = append(t.strings, s)
			if _, ok := t.index[s]; !ok {
				t.index[s] = Ref(len(t.strings) - 1)
			}
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, fmt.Errorf("string table: bad field %d: %w", num, errdefs.ErrInvalidArgument)
		}
		data = data[n:]
	}
	return t, nil
}
