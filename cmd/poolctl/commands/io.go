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
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/typepool/typepool/core/pool"
	"github.com/typepool/typepool/core/wire"
)

// zstd frame magic, little-endian.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ReadPool loads a pool file, transparently decompressing zstd input.
// The decode path revalidates the pool, so a file that loads is frozen
// and structurally sound.
func ReadPool(path string) (*pool.Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	p, err := wire.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WritePool serializes a pool to path, compressing when asked to.
func WritePool(path string, p *pool.Pool, compress bool) error {
	data, err := wire.Marshal(p)
	if err != nil {
		return err
	}
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	return os.WriteFile(path, data, 0o644)
}

// PrintAsJSON prints v on stdout, indented.
func PrintAsJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "can't marshal %+v as a json string: %v\n", v, err)
	}
}
