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

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typepool/typepool/core/colors"
	"github.com/typepool/typepool/core/pool"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.True(t, cfg.Output.Compress)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = 1

[store]
path = "/tmp/pools.db"

[output]
compress = false
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pools.db", cfg.Store.Path)
	assert.False(t, cfg.Output.Compress)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func testPool(t *testing.T) *pool.Pool {
	t.Helper()
	b := pool.NewBuilder()
	ptr, err := b.Append(&colors.Object{UUID: "A"})
	require.NoError(t, err)
	b.AddEdge(ptr, colors.TopObjectType.Pointer())
	p, err := b.Freeze()
	require.NoError(t, err)
	return p
}

func TestReadWritePool(t *testing.T) {
	p := testPool(t)
	for _, compress := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "pool.bin")
		require.NoError(t, WritePool(path, p, compress))

		got, err := ReadPool(path)
		require.NoError(t, err)
		assert.True(t, p.Equal(got), "compress=%v", compress)
	}
}

func TestReadPoolRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xde, 0xad, 0xbe, 0xef}, 0o644))
	_, err := ReadPool(path)
	assert.Error(t, err)
}
