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

// Package colors defines the pointer address space and the type records
// that make up a type pool: a fixed registry of primitive types on the low
// ordinals, and object/union records above them. Records reference each
// other exclusively through flat integer pointers so that an arbitrarily
// cyclic type graph stays serializable; the pointer value is the wire
// representation, not an implementation detail.
package colors

// Pointer addresses the combined primitive/pool space. Values below
// PrimitiveCount name primitives by ordinal; a value p >= PrimitiveCount
// addresses pool record p - PrimitiveCount.
type Pointer int32

// Primitive is the ordinal of a built-in type. The registry is closed and
// versioned: ordinals are contiguous from zero, consumers depend on the
// exact assignment, and extension may only append at the end.
type Primitive int32

const (
	UnknownType Primitive = iota
	BooleanType
	StringType
	NumberType
	NullOrVoidType
	SymbolType
	BigintType
	TopObjectType

	primitiveCount
)

// PrimitiveCount is the number of reserved low pointer values.
const PrimitiveCount = Pointer(primitiveCount)

var primitiveNames = [primitiveCount]string{
	UnknownType:    "unknown",
	BooleanType:    "boolean",
	StringType:     "string",
	NumberType:     "number",
	NullOrVoidType: "null_or_void",
	SymbolType:     "symbol",
	BigintType:     "bigint",
	TopObjectType:  "top_object",
}

func (p Primitive) String() string {
	if !p.Valid() {
		return "invalid"
	}
	return primitiveNames[p]
}

// Valid reports whether p is one of the registered ordinals.
func (p Primitive) Valid() bool {
	return p >= 0 && p < primitiveCount
}

// Pointer returns the pointer value of the ordinal. Primitives occupy the
// reserved range directly, so this is the identity conversion.
func (p Primitive) Pointer() Pointer {
	return Pointer(p)
}

// IsPrimitive reports whether ptr addresses the primitive registry.
func IsPrimitive(ptr Pointer) bool {
	return ptr >= 0 && ptr < PrimitiveCount
}

// PoolIndex returns the record index addressed by ptr. Only meaningful
// when ptr >= PrimitiveCount; the result is negative otherwise.
func PoolIndex(ptr Pointer) int {
	return int(ptr - PrimitiveCount)
}

// PoolPointer returns the pointer addressing pool record index.
func PoolPointer(index int) Pointer {
	return Pointer(index) + PrimitiveCount
}

func (p Primitive) isType() {}
