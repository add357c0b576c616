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

package merge

import (
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/typepool/typepool/cmd/poolctl/commands"
	"github.com/typepool/typepool/core/pool"
)

// Command merges pools into a single pointer space. The argument order is
// the aggregation order, so the same invocation always produces the same
// output pointers; inputs are only loaded concurrently.
var Command = &cli.Command{
	Name:      "merge",
	Usage:     "Aggregate pool files into a single pool",
	ArgsUsage: "<file>...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "path of the merged pool file",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "no-compress",
			Usage: "write the output uncompressed, overriding the configuration",
		},
	},
	Action: func(cliContext *cli.Context) error {
		paths := cliContext.Args().Slice()
		if len(paths) == 0 {
			return fmt.Errorf("no pool files given: %w", errdefs.ErrInvalidArgument)
		}

		pools := make([]*pool.Pool, len(paths))
		g, ctx := errgroup.WithContext(cliContext.Context)
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				p, err := commands.ReadPool(path)
				if err != nil {
					return err
				}
				pools[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		merged, err := pool.Aggregate(pools...)
		if err != nil {
			return err
		}
		log.G(ctx).WithField("records", merged.Len()).Info("pools merged")

		compress := commands.GetConfig(cliContext).Output.Compress && !cliContext.Bool("no-compress")
		return commands.WritePool(cliContext.String("output"), merged, compress)
	},
}
