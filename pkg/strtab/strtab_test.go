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

package strtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestIntern(t *testing.T) {
	tab := NewTable()
	a := tab.Intern("length")
	b := tab.Intern("name")
	assert.Equal(t, Ref(0), a)
	assert.Equal(t, Ref(1), b)
	assert.Equal(t, a, tab.Intern("length"))
	assert.Equal(t, 2, tab.Len())

	s, ok := tab.Lookup(a)
	require.True(t, ok)
	assert.Equal(t, "length", s)

	_, ok = tab.Lookup(Ref(5))
	assert.False(t, ok)
}

func TestZeroValueTable(t *testing.T) {
	var tab Table
	assert.Equal(t, Ref(0), tab.Intern("x"))
	assert.Equal(t, 1, tab.Len())
}

func TestMarshalRoundTrip(t *testing.T) {
	tab := NewTable()
	tab.Intern("length")
	tab.Intern("render")
	tab.Intern("") // empty strings are legal entries

	got, err := Unmarshal(tab.Marshal())
	require.NoError(t, err)
	assert.Equal(t, tab.Strings(), got.Strings())
	assert.Equal(t, Ref(1), got.Intern("render"))
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "keep")
	// A field number from a future revision must not break the reader.
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	tab, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, tab.Strings())
}

func TestUnmarshalTruncated(t *testing.T) {
	tab := NewTable()
	tab.Intern("length")
	data := tab.Marshal()

	_, err := Unmarshal(data[:len(data)-2])
	assert.Error(t, err)
}
