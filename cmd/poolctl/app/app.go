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

package app

import (
	"fmt"

	"github.com/containerd/log"
	"github.com/urfave/cli/v2"

	"github.com/typepool/typepool/cmd/poolctl/commands"
	"github.com/typepool/typepool/cmd/poolctl/commands/dump"
	"github.com/typepool/typepool/cmd/poolctl/commands/gen"
	"github.com/typepool/typepool/cmd/poolctl/commands/merge"
	"github.com/typepool/typepool/cmd/poolctl/commands/store"
	"github.com/typepool/typepool/cmd/poolctl/commands/verify"
	"github.com/typepool/typepool/version"
)

// New returns the poolctl application.
func New() *cli.App {
	app := &cli.App{
		Name:     "poolctl",
		Version:  version.Version,
		Usage:    "inspect, validate and merge serialized type pools",
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "set the logging level [trace, debug, info, warn, error, fatal, panic]",
				Value: "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the poolctl configuration file",
			},
		},
		Before: func(cliContext *cli.Context) error {
			if err := log.SetLevel(cliContext.String("log-level")); err != nil {
				return err
			}
			cfg, err := commands.LoadConfig(cliContext.String("config"))
			if err != nil {
				return err
			}
			cliContext.App.Metadata["config"] = cfg
			return nil
		},
		Commands: []*cli.Command{
			dump.Command,
			verify.Command,
			merge.Command,
			gen.Command,
			store.Command,
			versionCommand,
		},
	}
	return app
}

var versionCommand = &cli.Command{
	Name:  "version",
	Usage: "Print the client version",
	Action: func(cliContext *cli.Context) error {
		fmt.Println("Version: ", version.Version)
		fmt.Println("Go version:", version.GoVersion)
		if version.Revision != "" {
			fmt.Println("Revision:", version.Revision)
		}
		return nil
	},
}
