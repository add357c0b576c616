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

package gen

import (
	"github.com/containerd/log"
	"github.com/urfave/cli/v2"

	"github.com/typepool/typepool/cmd/poolctl/commands"
	"github.com/typepool/typepool/core/colors"
	"github.com/typepool/typepool/core/pool"
	"github.com/typepool/typepool/pkg/strtab"
)

// Command writes a small synthetic pool: a constructor with its instance
// type, a union over the instance and a primitive, one subtyping edge and
// one ledger entry. Handy as decoder test input.
var Command = &cli.Command{
	Name:  "gen",
	Usage: "Generate a sample pool file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "path of the generated pool file",
			Value:   "pool.bin",
		},
	},
	Action: func(cliContext *cli.Context) error {
		names := strtab.NewTable()
		b := pool.NewBuilder()

		// The instance references the constructor's prototype slot and
		// vice versa, exercising a forward reference.
		instancePtr := colors.PoolPointer(0)
		ctorPtr := colors.PoolPointer(1)

		if _, err := b.Append(&colors.Object{
			UUID:          colors.GenerateUUID(),
			OwnProperties: []strtab.Ref{names.Intern("value"), names.Intern("render")},
			Prototype:     &ctorPtr,
		}); err != nil {
			return err
		}
		if _, err := b.Append(&colors.Object{
			UUID:              colors.GenerateUUID(),
			InstanceTypes:     []colors.Pointer{instancePtr},
			MarkedConstructor: true,
			Debug:             &colors.ObjectDebug{Typenames: []strtab.Ref{names.Intern("Widget")}},
		}); err != nil {
			return err
		}
		unionPtr, err := b.AppendUnionOf(instancePtr, colors.NumberType.Pointer())
		if err != nil {
			return err
		}
		b.AddEdge(instancePtr, colors.TopObjectType.Pointer())
		b.AddMismatch("gen.js:1", unionPtr, colors.StringType.Pointer())

		p, err := b.Freeze()
		if err != nil {
			return err
		}
		out := cliContext.String("output")
		compress := commands.GetConfig(cliContext).Output.Compress
		if err := commands.WritePool(out, p, compress); err != nil {
			return err
		}
		log.G(cliContext.Context).WithField("file", out).Info("sample pool written")
		return nil
	},
}
