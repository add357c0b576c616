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

package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/typepool/typepool/pkg/strtab"
)

func ptr(p Pointer) *Pointer { return &p }

func TestEqualObjects(t *testing.T) {
	base := func() *Object {
		return &Object{
			UUID:          "A",
			OwnProperties: []strtab.Ref{1, 2},
			InstanceTypes: []Pointer{9},
			Prototype:     ptr(10),
		}
	}

	for _, tc := range []struct {
		name   string
		mutate func(*Object)
		equal  bool
	}{
		{"identical", func(o *Object) {}, true},
		{"debug only differs", func(o *Object) {
			o.Debug = &ObjectDebug{Typenames: []strtab.Ref{7}}
		}, true},
		{"property order irrelevant", func(o *Object) {
			o.OwnProperties = []strtab.Ref{2, 1}
		}, true},
		{"duplicate properties collapse", func(o *Object) {
			o.OwnProperties = []strtab.Ref{1, 2, 2, 1}
		}, true},
		{"uuid differs", func(o *Object) { o.UUID = "B" }, false},
		{"flag differs", func(o *Object) { o.IsInvalidating = true }, false},
		{"keep original name differs", func(o *Object) { o.KeepOriginalName = true }, false},
		{"constructor flag differs", func(o *Object) { o.MarkedConstructor = true }, false},
		{"closure assert differs", func(o *Object) { o.ClosureAssert = true }, false},
		{"prototype absent", func(o *Object) { o.Prototype = nil }, false},
		{"prototype differs", func(o *Object) { o.Prototype = ptr(11) }, false},
		{"instance types differ", func(o *Object) { o.InstanceTypes = []Pointer{9, 9} }, false},
		{"properties differ", func(o *Object) { o.OwnProperties = []strtab.Ref{1} }, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, b := base(), base()
			tc.mutate(b)
			assert.Equal(t, tc.equal, Equal(a, b))
			assert.Equal(t, tc.equal, Equal(b, a))
		})
	}
}

func TestEqualUnions(t *testing.T) {
	assert.True(t, Equal(NewUnion(8, 3), NewUnion(3, 8)))
	assert.True(t, Equal(&Union{Members: []Pointer{3, 8, 3}}, &Union{Members: []Pointer{8, 3}}))
	assert.False(t, Equal(NewUnion(8, 3), NewUnion(8, 4)))
	assert.False(t, Equal(NewUnion(8), &Object{UUID: "A"}))
}

func TestNewUnionCanonical(t *testing.T) {
	u := NewUnion(9, 3, 9, 8)
	assert.Equal(t, []Pointer{3, 8, 9}, u.Members)
}

func TestVisitPointers(t *testing.T) {
	var seen []Pointer
	visit := func(p Pointer) { seen = append(seen, p) }

	VisitPointers(&Object{InstanceTypes: []Pointer{9, 10}, Prototype: ptr(11)}, visit)
	assert.Equal(t, []Pointer{9, 10, 11}, seen)

	seen = nil
	VisitPointers(NewUnion(3, 8), visit)
	assert.Equal(t, []Pointer{3, 8}, seen)
}

func TestMapPointers(t *testing.T) {
	shift := func(p Pointer) Pointer {
		if IsPrimitive(p) {
			return p
		}
		return p + 2
	}

	o := &Object{
		UUID:          "A",
		InstanceTypes: []Pointer{8},
		Prototype:     ptr(9),
		Debug:         &ObjectDebug{Typenames: []strtab.Ref{1}},
	}
	got := MapPointers(o, shift).(*Object)
	assert.Equal(t, []Pointer{10}, got.InstanceTypes)
	assert.Equal(t, Pointer(11), *got.Prototype)
	assert.Equal(t, []strtab.Ref{1}, got.Debug.Typenames)
	// The input record is untouched.
	assert.Equal(t, []Pointer{8}, o.InstanceTypes)
	assert.Equal(t, Pointer(9), *o.Prototype)

	u := MapPointers(NewUnion(3, 8, 9), shift).(*Union)
	assert.Equal(t, []Pointer{3, 10, 11}, u.Members)
}
