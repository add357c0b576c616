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

package dump

import (
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/urfave/cli/v2"

	"github.com/typepool/typepool/cmd/poolctl/commands"
	"github.com/typepool/typepool/core/colors"
	"github.com/typepool/typepool/core/pool"
	"github.com/typepool/typepool/pkg/strtab"
)

// Command prints a decoded pool as JSON.
var Command = &cli.Command{
	Name:      "dump",
	Usage:     "Decode a pool file and print its contents as JSON",
	ArgsUsage: "<file>",
	Action: func(cliContext *cli.Context) error {
		if cliContext.NArg() != 1 {
			return fmt.Errorf("expected exactly one pool file: %w", errdefs.ErrInvalidArgument)
		}
		p, err := commands.ReadPool(cliContext.Args().First())
		if err != nil {
			return err
		}
		commands.PrintAsJSON(newPoolView(p))
		return nil
	},
}

type poolView struct {
	Records    []recordView   `json:"records"`
	Edges      []edgeView     `json:"edges,omitempty"`
	Mismatches []mismatchView `json:"mismatches,omitempty"`
}

type recordView struct {
	Pointer           colors.Pointer   `json:"pointer"`
	Kind              string           `json:"kind"`
	UUID              string           `json:"uuid,omitempty"`
	OwnProperties     []strtab.Ref     `json:"own_properties,omitempty"`
	InstanceTypes     []colors.Pointer `json:"instance_types,omitempty"`
	Prototype         *colors.Pointer  `json:"prototype,omitempty"`
	MarkedConstructor bool             `json:"marked_constructor,omitempty"`
	IsInvalidating    bool             `json:"is_invalidating,omitempty"`
	KeepOriginalName  bool             `json:"properties_keep_original_name,omitempty"`
	ClosureAssert     bool             `json:"closure_assert,omitempty"`
	Typenames         []strtab.Ref     `json:"debug_typenames,omitempty"`
	Members           []colors.Pointer `json:"members,omitempty"`
}

type edgeView struct {
	Subtype   colors.Pointer `json:"subtype"`
	Supertype colors.Pointer `json:"supertype"`
}

type mismatchView struct {
	SourceRef string           `json:"source_ref,omitempty"`
	Involved  []colors.Pointer `json:"involved,omitempty"`
}

func newPoolView(p *pool.Pool) *poolView {
	v := &poolView{}
	for i, r := range p.Records() {
		rv := recordView{Pointer: colors.PoolPointer(i)}
		switch r := r.(type) {
		case *colors.Object:
			rv.Kind = "object"
			rv.UUID = r.UUID
			rv.OwnProperties = r.OwnProperties
			rv.InstanceTypes = r.InstanceTypes
			rv.Prototype = r.Prototype
			rv.MarkedConstructor = r.MarkedConstructor
			rv.IsInvalidating = r.IsInvalidating
			rv.KeepOriginalName = r.KeepOriginalName
			rv.ClosureAssert = r.ClosureAssert
			if r.Debug != nil {
				rv.Typenames = r.Debug.Typenames
			}
		case *colors.Union:
			rv.Kind = "union"
			rv.Members = r.Members
		}
		v.Records = append(v.Records, rv)
	}
	for _, e := range p.Edges() {
		v.Edges = append(v.Edges, edgeView{Subtype: e.Subtype, Supertype: e.Supertype})
	}
	for _, m := range p.Mismatches() {
		v.Mismatches = append(v.Mismatches, mismatchView{SourceRef: m.SourceRef, Involved: m.Involved})
	}
	return v
}
