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

package wire

import (
	"fmt"

	"github.com/containerd/errdefs"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/typepool/typepool/core/colors"
	"github.com/typepool/typepool/core/pool"
	"github.com/typepool/typepool/pkg/strtab"
)

// Marshal encodes a frozen pool. The encoding is deterministic: the same
// pool always yields the same bytes.
func Marshal(p *pool.Pool) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("nil pool: %w", errdefs.ErrInvalidArgument)
	}
	var b []byte
	for _, r := range p.Records() {
		b = appendMessage(b, fieldPoolType, appendTypeProto(nil, r))
	}
	for _, e := range p.Edges() {
		b = appendMessage(b, fieldPoolEdge, appendEdge(nil, e))
	}
	if ms := p.Mismatches(); len(ms) > 0 {
		var d []byte
		for _, m := range ms {
			d = appendMessage(d, fieldDebugMismatch, appendMismatch(nil, m))
		}
		b = appendMessage(b, fieldPoolDebugInfo, d)
	}
	return b, nil
}

// MarshalBundle encodes several pools into the companion list message.
// Bundling carries no semantics beyond concatenation; pointer spaces stay
// pool-local.
func MarshalBundle(pools []*pool.Pool) ([]byte, error) {
	var b []byte
	for _, p := range pools {
		d, err := Marshal(p)
		if err != nil {
			return nil, err
		}
		b = appendMessage(b, fieldListPool, d)
	}
	return b, nil
}

func appendTypeProto(b []byte, r colors.Record) []byte {
	switch r := r.(type) {
	case *colors.Object:
		return appendMessage(b, fieldTypeObject, appendObject(nil, r))
	case *colors.Union:
		return appendMessage(b, fieldTypeUnion, appendUnion(nil, r))
	}
	return b
}

func appendObject(b []byte, o *colors.Object) []byte {
	if o.UUID != "" {
		b = protowire.AppendTag(b, fieldObjectUUID, protowire.BytesType)
		b = protowire.AppendString(b, o.UUID)
	}
	b = appendPackedRefs(b, fieldObjectOwnProperty, o.OwnProperties)
	b = appendPackedPointers(b, fieldObjectInstanceType, o.InstanceTypes)
	if o.Prototype != nil {
		b = protowire.AppendTag(b, fieldObjectPrototype, protowire.VarintType)
		b = appendPointer(b, *o.Prototype)
	}
	b = appendBool(b, fieldObjectMarkedCtor, o.MarkedConstructor)
	b = appendBool(b, fieldObjectIsInvalidating, o.IsInvalidating)
	b = appendBool(b, fieldObjectKeepOriginalName, o.KeepOriginalName)
	b = appendBool(b, fieldObjectClosureAssert, o.ClosureAssert)
	if o.Debug != nil {
		b = appendMessage(b, fieldObjectDebugInfo,
			appendPackedRefs(nil, fieldObjectDebugTypename, o.Debug.Typenames))
	}
	return b
}

func appendUnion(b []byte, u *colors.Union) []byte {
	return appendPackedPointers(b, fieldUnionMember, u.Members)
}

func appendEdge(b []byte, e pool.Edge) []byte {
	b = protowire.AppendTag(b, fieldEdgeSubtype, protowire.VarintType)
	b = appendPointer(b, e.Subtype)
	b = protowire.AppendTag(b, fieldEdgeSupertype, protowire.VarintType)
	b = appendPointer(b, e.Supertype)
	return b
}

func appendMismatch(b []byte, m pool.Mismatch) []byte {
	if m.SourceRef != "" {
		b = protowire.AppendTag(b, fieldMismatchSourceRef, protowire.BytesType)
		b = protowire.AppendString(b, m.SourceRef)
	}
	return appendPackedPointers(b, fieldMismatchInvolved, m.Involved)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

// Pointers follow proto int32 varint semantics: negative values, which a
// frozen pool cannot hold, would sign-extend to ten bytes.
func appendPointer(b []byte, p colors.Pointer) []byte {
	return protowire.AppendVarint(b, uint64(int64(p)))
}

func appendPackedPointers(b []byte, num protowire.Number, ps []colors.Pointer) []byte {
	if len(ps) == 0 {
		return b
	}
	var d []byte
	for _, p := range ps {
		d = appendPointer(d, p)
	}
	return appendMessage(b, num, d)
}

func appendPackedRefs(b []byte, num protowire.Number, refs []strtab.Ref) []byte {
	if len(refs) == 0 {
		return b
	}
	var d []byte
	for _, r := range refs {
		d = protowire.AppendVarint(d, uint64(r))
	}
	return appendMessage(b, num, d)
}
