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

package poolstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typepool/typepool/core/colors"
	"github.com/typepool/typepool/core/pool"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pools.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPool(t *testing.T, uuid string) *pool.Pool {
	t.Helper()
	b := pool.NewBuilder()
	ptr, err := b.Append(&colors.Object{UUID: uuid, IsInvalidating: true})
	require.NoError(t, err)
	_, err = b.AppendUnionOf(ptr, colors.NumberType.Pointer())
	require.NoError(t, err)
	b.AddEdge(ptr, colors.TopObjectType.Pointer())
	p, err := b.Freeze()
	require.NoError(t, err)
	return p
}

func TestPutGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := testPool(t, "A")

	dgst, err := s.Put(ctx, "unit-a", p)
	require.NoError(t, err)
	require.NotEmpty(t, dgst)

	got, err := s.Get(ctx, "unit-a")
	require.NoError(t, err)
	assert.True(t, p.Equal(got))
}

func TestPutDuplicateUnit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "unit-a", testPool(t, "A"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "unit-a", testPool(t, "B"))
	assert.True(t, errdefs.IsAlreadyExists(err))
}

func TestPutEmptyUnit(t *testing.T) {
	s := testStore(t)
	_, err := s.Put(context.Background(), "", testPool(t, "A"))
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errdefs.IsNotFound(err))
}

func TestIdenticalPoolsShareBlob(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	d1, err := s.Put(ctx, "unit-a", testPool(t, "A"))
	require.NoError(t, err)
	d2, err := s.Put(ctx, "unit-b", testPool(t, "A"))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	// Deleting one unit must not orphan the other's payload.
	require.NoError(t, s.Delete(ctx, "unit-a"))
	got, err := s.Get(ctx, "unit-b")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "unit-a", testPool(t, "A"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "unit-a"))

	_, err = s.Get(ctx, "unit-a")
	assert.True(t, errdefs.IsNotFound(err))
	assert.True(t, errdefs.IsNotFound(s.Delete(ctx, "unit-a")))
}

func TestWalk(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	pa, pb := testPool(t, "A"), testPool(t, "B")
	_, err := s.Put(ctx, "unit-b", pb)
	require.NoError(t, err)
	_, err = s.Put(ctx, "unit-a", pa)
	require.NoError(t, err)

	var units []string
	require.NoError(t, s.Walk(ctx, func(info Info) error {
		units = append(units, info.Unit)
		assert.NotEmpty(t, info.Digest)
		assert.NotZero(t, info.Size)
		return nil
	}))
	// bbolt iterates keys in lexical order.
	assert.Equal(t, []string{"unit-a", "unit-b"}, units)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.db")
	ctx := context.Background()
	p := testPool(t, "A")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Put(ctx, "unit-a", p)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "unit-a")
	require.NoError(t, err)
	assert.True(t, p.Equal(got))
}
