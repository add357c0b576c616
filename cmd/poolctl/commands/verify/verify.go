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

package verify

import (
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/typepool/typepool/cmd/poolctl/commands"
)

// Command validates pool files: a file passes when it decodes and
// freezes, i.e. every pointer resolves and no union nests a union.
var Command = &cli.Command{
	Name:      "verify",
	Usage:     "Validate the structural integrity of pool files",
	ArgsUsage: "<file>...",
	Action: func(cliContext *cli.Context) error {
		if cliContext.NArg() == 0 {
			return fmt.Errorf("no pool files given: %w", errdefs.ErrInvalidArgument)
		}
		g, ctx := errgroup.WithContext(cliContext.Context)
		for _, path := range cliContext.Args().Slice() {
			path := path
			g.Go(func() error {
				p, err := commands.ReadPool(path)
				if err != nil {
					return err
				}
				log.G(ctx).WithFields(logrus.Fields{
					"file":       path,
					"records":    p.Len(),
					"edges":      len(p.Edges()),
					"mismatches": len(p.Mismatches()),
				}).Info("pool ok")
				return nil
			})
		}
		return g.Wait()
	},
}
