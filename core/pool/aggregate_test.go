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
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typepool/typepool/core/colors"
	"github.com/typepool/typepool/pkg/strtab"
)

// buildUnitPool builds the worked example pool: an object at pointer 8
// and a union {8, number} at pointer 9.
func buildUnitPool(t *testing.T) *Pool {
	t.Helper()
	b := NewBuilder()
	objPtr, err := b.Append(&colors.Object{UUID: "A"})
	require.NoError(t, err)
	require.Equal(t, colors.Pointer(8), objPtr)

	unionPtr, err := b.AppendUnionOf(objPtr, colors.NumberType.Pointer())
	require.NoError(t, err)
	require.Equal(t, colors.Pointer(9), unionPtr)

	p, err := b.Freeze()
	require.NoError(t, err)
	return p
}

func TestWorkedExample(t *testing.T) {
	first := buildUnitPool(t)

	got, err := first.Get(9)
	require.NoError(t, err)
	u, ok := got.(*colors.Union)
	require.True(t, ok)
	assert.Equal(t, []colors.Pointer{colors.NumberType.Pointer(), 8}, u.Members)

	// Second pool: a single object at local pointer 8.
	b := NewBuilder()
	_, err = b.Append(&colors.Object{UUID: "B"})
	require.NoError(t, err)
	second, err := b.Freeze()
	require.NoError(t, err)

	merged, err := Aggregate(first, second)
	require.NoError(t, err)
	require.Equal(t, 3, merged.Len())

	// The second pool's object shifted by the two records already
	// placed: local 8 becomes 10.
	rec, err := merged.Get(10)
	require.NoError(t, err)
	assert.Equal(t, "B", rec.(*colors.Object).UUID)

	// First pool's records keep their pointers, primitives included.
	rec, err = merged.Get(9)
	require.NoError(t, err)
	assert.Equal(t, []colors.Pointer{colors.NumberType.Pointer(), 8}, rec.(*colors.Union).Members)
}

func TestAggregateRewritesEdgesAndMismatches(t *testing.T) {
	mk := func(uuid string) *Pool {
		b := NewBuilder()
		ptr, err := b.Append(&colors.Object{UUID: uuid})
		require.NoError(t, err)
		b.AddEdge(ptr, colors.TopObjectType.Pointer())
		b.AddMismatch(uuid+".js:1", ptr, colors.StringType.Pointer())
		p, err := b.Freeze()
		require.NoError(t, err)
		return p
	}

	merged, err := Aggregate(mk("A"), mk("B"))
	require.NoError(t, err)

	edges := merged.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, Edge{Subtype: 8, Supertype: colors.TopObjectType.Pointer()}, edges[0])
	assert.Equal(t, Edge{Subtype: 9, Supertype: colors.TopObjectType.Pointer()}, edges[1])

	mismatches := merged.Mismatches()
	require.Len(t, mismatches, 2)
	assert.Equal(t, []colors.Pointer{9, colors.StringType.Pointer()}, mismatches[1].Involved)
}

func TestAggregateDeterministic(t *testing.T) {
	pools := []*Pool{buildUnitPool(t), buildUnitPool(t), buildUnitPool(t)}

	a, err := Aggregate(pools...)
	require.NoError(t, err)
	b, err := Aggregate(pools...)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	for i := range a.records {
		assert.True(t, colors.Equal(a.records[i], b.records[i]))
	}
}

func TestAggregateOrderChangesPointers(t *testing.T) {
	first := buildUnitPool(t)

	b := NewBuilder()
	_, err := b.Append(&colors.Object{UUID: "B"})
	require.NoError(t, err)
	second, err := b.Freeze()
	require.NoError(t, err)

	ab, err := Aggregate(first, second)
	require.NoError(t, err)
	ba, err := Aggregate(second, first)
	require.NoError(t, err)

	assert.False(t, ab.Equal(ba))
	rec, err := ba.Get(8)
	require.NoError(t, err)
	assert.Equal(t, "B", rec.(*colors.Object).UUID)
}

func TestAggregateNilPool(t *testing.T) {
	_, err := Aggregate(buildUnitPool(t), nil)
	var agg *AggregationError
	require.ErrorAs(t, err, &agg)
	assert.Equal(t, 1, agg.Pool)
	assert.True(t, errdefs.IsFailedPrecondition(err))
}

func TestAggregateEmpty(t *testing.T) {
	merged, err := Aggregate()
	require.NoError(t, err)
	assert.Equal(t, 0, merged.Len())
}

func TestAggregateInputsUntouched(t *testing.T) {
	first := buildUnitPool(t)
	second := buildUnitPool(t)
	_, err := Aggregate(first, second)
	require.NoError(t, err)

	// Pointer rewriting must copy records, never mutate the inputs.
	rec, err := second.Get(9)
	require.NoError(t, err)
	assert.Equal(t, []colors.Pointer{colors.NumberType.Pointer(), 8}, rec.(*colors.Union).Members)
}

func TestPoolEqualIgnoresDebug(t *testing.T) {
	mk := func(withDebug bool) *Pool {
		b := NewBuilder()
		o := &colors.Object{UUID: "A"}
		if withDebug {
			o.Debug = &colors.ObjectDebug{Typenames: []strtab.Ref{1}}
		}
		_, err := b.Append(o)
		require.NoError(t, err)
		if withDebug {
			b.AddMismatch("seen.js:3", colors.PoolPointer(0))
		}
		p, err := b.Freeze()
		require.NoError(t, err)
		return p
	}
	assert.True(t, mk(true).Equal(mk(false)))
}
