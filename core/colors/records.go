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
	"slices"

	"github.com/typepool/typepool/pkg/strtab"
)

// Type is what a pointer resolves to: a Primitive ordinal or a pool
// record. The set of implementations is closed.
type Type interface {
	isType()
}

// Record is a pool entry: exactly one of *Object or *Union. The sum is
// closed so that the serializer, the equality relation and the aggregator
// can match it exhaustively.
type Record interface {
	Type
	isRecord()
}

// Object describes a user-defined object type.
type Object struct {
	// UUID distinguishes otherwise structurally identical types. It is a
	// byte string chosen by the producer, not required to be RFC 4122.
	UUID string

	// OwnProperties are the names owned by this type, as interned string
	// offsets. Set semantics; order does not participate in equality.
	OwnProperties []strtab.Ref

	// InstanceTypes are the instance pointers of a constructor.
	InstanceTypes []Pointer

	// Prototype is the prototype pointer, when known. Absence and pointer
	// zero are distinct, so presence is modelled explicitly.
	Prototype *Pointer

	// IsInvalidating suppresses property optimizations for anything
	// reachable through this type.
	IsInvalidating bool

	// KeepOriginalName marks an extern-like type whose own properties must
	// keep their source names, while other references stay optimizable.
	KeepOriginalName bool

	// MarkedConstructor records that the type was declared as a class or
	// legacy constructor function.
	MarkedConstructor bool

	// ClosureAssert marks an assertion function subject to removal under
	// the assertion-stripping flag.
	ClosureAssert bool

	// Debug carries advisory metadata; it never participates in equality
	// and consumers may drop it wholesale.
	Debug *ObjectDebug
}

// ObjectDebug is the advisory payload of an object record.
type ObjectDebug struct {
	// Typenames are human-readable names for the type, as interned string
	// offsets.
	Typenames []strtab.Ref
}

// Union describes a union of other types. Members are a set: canonical
// form is sorted ascending with duplicates collapsed, which NewUnion
// establishes. A union member must never address another union record;
// construction flattens one level (see pool.Builder.AppendUnionOf) and
// freezing enforces the invariant globally.
type Union struct {
	Members []Pointer
}

// NewUnion returns a union over the given members in canonical form.
// It does not flatten nested unions; that requires resolving pointers
// against a pool.
func NewUnion(members ...Pointer) *Union {
	return &Union{Members: canonicalMembers(members)}
}

func canonicalMembers(members []Pointer) []Pointer {
	out := slices.Clone(members)
	slices.Sort(out)
	return slices.Compact(out)
}

func (o *Object) isType()   {}
func (o *Object) isRecord() {}
func (u *Union) isType()    {}
func (u *Union) isRecord()  {}

// VisitPointers calls visit for every pointer held by r, including the
// prototype and every union member. Debug payloads hold no pointers.
func VisitPointers(r Record, visit func(Pointer)) {
	switch r := r.(type) {
	case *Object:
		for _, p := range r.InstanceTypes {
			visit(p)
		}
		if r.Prototype != nil {
			visit(*r.Prototype)
		}
	case *Union:
		for _, p := range r.Members {
			visit(p)
		}
	}
}

// MapPointers returns a deep copy of r with every pointer rewritten
// through fn. Union members are re-canonicalized, since fn may collapse
// or reorder them.
func MapPointers(r Record, fn func(Pointer) Pointer) Record {
	switch r := r.(type) {
	case *Object:
		out := *r
		out.InstanceTypes = make([]Pointer, len(r.InstanceTypes))
		for i, p := range r.InstanceTypes {
			out.InstanceTypes[i] = fn(p)
		}
		if r.Prototype != nil {
			p := fn(*r.Prototype)
			out.Prototype = &p
		}
		out.OwnProperties = slices.Clone(r.OwnProperties)
		if r.Debug != nil {
			out.Debug = &ObjectDebug{Typenames: slices.Clone(r.Debug.Typenames)}
		}
		return &out
	case *Union:
		members := make([]Pointer, len(r.Members))
		for i, p := range r.Members {
			members[i] = fn(p)
		}
		return &Union{Members: canonicalMembers(members)}
	}
	return r
}
