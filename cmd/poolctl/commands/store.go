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

	"github.com/urfave/cli/v2"

	"github.com/typepool/typepool/core/poolstore"
)

// OpenStore opens the configured pool store, creating its directory on
// first use.
func OpenStore(cliContext *cli.Context) (*poolstore.Store, error) {
	path := GetConfig(cliContext).Store.Path
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return poolstore.Open(path)
}
