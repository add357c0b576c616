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

package store

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/urfave/cli/v2"

	"github.com/typepool/typepool/cmd/poolctl/commands"
	"github.com/typepool/typepool/core/poolstore"
)

// Command manages the durable pool store.
var Command = &cli.Command{
	Name:  "store",
	Usage: "Manage the durable pool store",
	Subcommands: []*cli.Command{
		importCommand,
		getCommand,
		listCommand,
		removeCommand,
	},
}

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "Store the pool of a compilation unit",
	ArgsUsage: "<unit> <file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "replace the unit if it is already stored",
		},
	},
	Action: func(cliContext *cli.Context) error {
		if cliContext.NArg() != 2 {
			return fmt.Errorf("expected <unit> and <file>: %w", errdefs.ErrInvalidArgument)
		}
		unit, path := cliContext.Args().Get(0), cliContext.Args().Get(1)
		p, err := commands.ReadPool(path)
		if err != nil {
			return err
		}
		s, err := commands.OpenStore(cliContext)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cliContext.Context
		if cliContext.Bool("force") {
			if err := s.Delete(ctx, unit); err != nil && !errdefs.IsNotFound(err) {
				return err
			}
		}
		dgst, err := s.Put(ctx, unit, p)
		if err != nil {
			return err
		}
		log.G(ctx).WithField("unit", unit).WithField("digest", dgst).Info("pool imported")
		return nil
	},
}

var getCommand = &cli.Command{
	Name:      "get",
	Usage:     "Export the stored pool of a unit to a file",
	ArgsUsage: "<unit>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "path of the exported pool file",
			Required: true,
		},
	},
	Action: func(cliContext *cli.Context) error {
		if cliContext.NArg() != 1 {
			return fmt.Errorf("expected exactly one unit: %w", errdefs.ErrInvalidArgument)
		}
		s, err := commands.OpenStore(cliContext)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Get(cliContext.Context, cliContext.Args().First())
		if err != nil {
			return err
		}
		compress := commands.GetConfig(cliContext).Output.Compress
		return commands.WritePool(cliContext.String("output"), p, compress)
	},
}

var listCommand = &cli.Command{
	Name:    "ls",
	Aliases: []string{"list"},
	Usage:   "List stored units",
	Action: func(cliContext *cli.Context) error {
		s, err := commands.OpenStore(cliContext)
		if err != nil {
			return err
		}
		defer s.Close()

		w := tabwriter.NewWriter(os.Stdout, 1, 8, 1, ' ', 0)
		fmt.Fprintln(w, "UNIT\tDIGEST\tSIZE")
		if err := s.Walk(cliContext.Context, func(info poolstore.Info) error {
			_, err := fmt.Fprintf(w, "%s\t%s\t%d\n", info.Unit, info.Digest, info.Size)
			return err
		}); err != nil {
			return err
		}
		return w.Flush()
	},
}

var removeCommand = &cli.Command{
	Name:      "rm",
	Aliases:   []string{"remove"},
	Usage:     "Remove stored units",
	ArgsUsage: "<unit>...",
	Action: func(cliContext *cli.Context) error {
		if cliContext.NArg() == 0 {
			return fmt.Errorf("no units given: %w", errdefs.ErrInvalidArgument)
		}
		s, err := commands.OpenStore(cliContext)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, unit := range cliContext.Args().Slice() {
			if err := s.Delete(cliContext.Context, unit); err != nil {
				return err
			}
		}
		return nil
	},
}
