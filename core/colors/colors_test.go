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
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRegistryContiguous(t *testing.T) {
	// Consumers map ordinal to pointer arithmetically, so the registry
	// must stay contiguous from zero with the documented assignment.
	expected := []Primitive{
		UnknownType,
		BooleanType,
		StringType,
		NumberType,
		NullOrVoidType,
		SymbolType,
		BigintType,
		TopObjectType,
	}
	require.Len(t, expected, int(PrimitiveCount))
	for i, p := range expected {
		assert.Equal(t, Primitive(i), p)
		assert.True(t, p.Valid())
		assert.Equal(t, Pointer(i), p.Pointer())
		assert.NotEqual(t, "invalid", p.String())
	}
	assert.Equal(t, Pointer(8), PrimitiveCount)
	assert.Equal(t, Pointer(3), NumberType.Pointer())
}

func TestPrimitiveInvalid(t *testing.T) {
	assert.False(t, Primitive(-1).Valid())
	assert.False(t, Primitive(PrimitiveCount).Valid())
	assert.Equal(t, "invalid", Primitive(99).String())
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, IsPrimitive(0))
	assert.True(t, IsPrimitive(PrimitiveCount-1))
	assert.False(t, IsPrimitive(PrimitiveCount))
	assert.False(t, IsPrimitive(-1))
}

func TestPoolPointerRoundTrip(t *testing.T) {
	for _, index := range []int{0, 1, 100} {
		ptr := PoolPointer(index)
		assert.False(t, IsPrimitive(ptr))
		assert.Equal(t, index, PoolIndex(ptr))
	}
	assert.Equal(t, PrimitiveCount, PoolPointer(0))
}

func TestGenerateUUID(t *testing.T) {
	a, b := GenerateUUID(), GenerateUUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
