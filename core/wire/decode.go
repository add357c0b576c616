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

// Unmarshal decodes a pool message and returns it frozen. Decoded data is
// untrusted: the full freeze validation runs, so dangling pointers or
// nested unions in the input surface as the corresponding structural
// errors rather than producing a corrupt pool. Unknown fields are
// skipped.
func Unmarshal(data []byte) (*pool.Pool, error) {
	b := pool.NewBuilder()
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errTruncated("pool")
		}
		data = data[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errTruncated("pool")
			}
			data = data[n:]
			continue
		}
		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, errTruncated("pool")
		}
		data = data[n:]

		switch num {
		case fieldPoolType:
			rec, err := decodeTypeProto(msg)
			if err != nil {
				return nil, err
			}
			if _, err := b.Append(rec); err != nil {
				return nil, err
			}
		case fieldPoolEdge:
			sub, sup, err := decodeEdge(msg)
			if err != nil {
				return nil, err
			}
			b.AddEdge(sub, sup)
		case fieldPoolDebugInfo:
			if err := decodeDebugInfo(msg, b); err != nil {
				return nil, err
			}
		}
	}
	return b.Freeze()
}

// UnmarshalBundle decodes the companion list-of-pools message.
func UnmarshalBundle(data []byte) ([]*pool.Pool, error) {
	var pools []*pool.Pool
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errTruncated("bundle")
		}
		data = data[n:]
		if num == fieldListPool && typ == protowire.BytesType {
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errTruncated("bundle")
			}
			data = data[n:]
			p, err := Unmarshal(msg)
			if err != nil {
				return nil, fmt.Errorf("bundle pool %d: %w", len(pools), err)
			}
			pools = append(pools, p)
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, errTruncated("bundle")
		}
		data = data[n:]
	}
	return pools, nil
}

// decodeTypeProto decodes the record oneof. Exactly one variant must be
// present; when a corrupt or newer writer emits several, the last wins,
// matching proto oneof semantics.
func decodeTypeProto(data []byte) (colors.Record, error) {
	var rec colors.Record
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errTruncated("type record")
		}
		data = data[n:]
		if typ == protowire.BytesType && (num == fieldTypeObject || num == fieldTypeUnion) {
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errTruncated("type record")
			}
			data = data[n:]
			var err error
			if num == fieldTypeObject {
				rec, err = decodeObject(msg)
			} else {
				rec, err = decodeUnion(msg)
			}
			if err != nil {
				return nil, err
			}
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, errTruncated("type record")
		}
		data = data[n:]
	}
	if rec == nil {
		return nil, fmt.Errorf("type record has no object or union variant: %w", errdefs.ErrInvalidArgument)
	}
	return rec, nil
}

func decodeObject(data []byte) (*colors.Object, error) {
	o := &colors.Object{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errTruncated("object type")
		}
		data = data[n:]

		var err error
		switch num {
		case fieldObjectUUID:
			if typ != protowire.BytesType {
				n = protowire.ConsumeFieldValue(num, typ, data)
				break
			}
			var s string
			s, n = protowire.ConsumeString(data)
			o.UUID = s
		case fieldObjectOwnProperty:
			n, err = consumeVarints(data, typ, func(v uint64) {
				o.OwnProperties = append(o.OwnProperties, strtab.Ref(v))
			})
		case fieldObjectInstanceType:
			n, err = consumeVarints(data, typ, func(v uint64) {
				o.InstanceTypes = append(o.InstanceTypes, toPointer(v))
			})
		case fieldObjectPrototype:
			if typ != protowire.VarintType {
				n = protowire.ConsumeFieldValue(num, typ, data)
				break
			}
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			if n >= 0 {
				p := toPointer(v)
				o.Prototype = &p
			}
		case fieldObjectMarkedCtor, fieldObjectIsInvalidating,
			fieldObjectKeepOriginalName, fieldObjectClosureAssert:
			if typ != protowire.VarintType {
				n = protowire.ConsumeFieldValue(num, typ, data)
				break
			}
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			switch num {
			case fieldObjectMarkedCtor:
				o.MarkedConstructor = v != 0
			case fieldObjectIsInvalidating:
				o.IsInvalidating = v != 0
			case fieldObjectKeepOriginalName:
				o.KeepOriginalName = v != 0
			case fieldObjectClosureAssert:
				o.ClosureAssert = v != 0
			}
		case fieldObjectDebugInfo:
			if typ != protowire.BytesType {
				n = protowire.ConsumeFieldValue(num, typ, data)
				break
			}
			var msg []byte
			msg, n = protowire.ConsumeBytes(data)
			if n >= 0 {
				if o.Debug, err = decodeObjectDebug(msg); err != nil {
					return nil, err
				}
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errTruncated("object type")
		}
		data = data[n:]
	}
	return o, nil
}

func decodeObjectDebug(data []byte) (*colors.ObjectDebug, error) {
	d := &colors.ObjectDebug{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errTruncated("object debug info")
		}
		data = data[n:]
		var err error
		if num == fieldObjectDebugTypename {
			n, err = consumeVarints(data, typ, func(v uint64) {
				d.Typenames = append(d.Typenames, strtab.Ref(v))
			})
		} else {
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errTruncated("object debug info")
		}
		data = data[n:]
	}
	return d, nil
}

func decodeUnion(data []byte) (*colors.Union, error) {
	var members []colors.Pointer
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errTruncated("union type")
		}
		data = data[n:]
		var err error
		if num == fieldUnionMember {
			n, err = consumeVarints(data, typ, func(v uint64) {
				members = append(members, toPointer(v))
			})
		} else {
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errTruncated("union type")
		}
		data = data[n:]
	}
	return colors.NewUnion(members...), nil
}

func decodeEdge(data []byte) (sub, sup colors.Pointer, _ error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return 0, 0, errTruncated("subtyping edge")
		}
		data = data[n:]
		if typ == protowire.VarintType && (num == fieldEdgeSubtype || num == fieldEdgeSupertype) {
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return 0, 0, errTruncated("subtyping edge")
			}
			data = data[n:]
			if num == fieldEdgeSubtype {
				sub = toPointer(v)
			} else {
				sup = toPointer(v)
			}
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return 0, 0, errTruncated("subtyping edge")
		}
		data = data[n:]
	}
	return sub, sup, nil
}

func decodeDebugInfo(data []byte, b *pool.Builder) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errTruncated("debug info")
		}
		data = data[n:]
		if num == fieldDebugMismatch && typ == protowire.BytesType {
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return errTruncated("debug info")
			}
			data = data[n:]
			sourceRef, involved, err := decodeMismatch(msg)
			if err != nil {
				return err
			}
			b.AddMismatch(sourceRef, involved...)
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return errTruncated("debug info")
		}
		data = data[n:]
	}
	return nil
}

func decodeMismatch(data []byte) (sourceRef string, involved []colors.Pointer, _ error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", nil, errTruncated("mismatch")
		}
		data = data[n:]
		var err error
		switch num {
		case fieldMismatchSourceRef:
			if typ != protowire.BytesType {
				n = protowire.ConsumeFieldValue(num, typ, data)
				break
			}
			sourceRef, n = protowire.ConsumeString(data)
		case fieldMismatchInvolved:
			n, err = consumeVarints(data, typ, func(v uint64) {
				involved = append(involved, toPointer(v))
			})
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if err != nil {
			return "", nil, err
		}
		if n < 0 {
			return "", nil, errTruncated("mismatch")
		}
		data = data[n:]
	}
	return sourceRef, involved, nil
}

// consumeVarints reads one occurrence of a repeated varint field, packed
// (length-delimited) or unpacked, and returns the bytes consumed.
func consumeVarints(data []byte, typ protowire.Type, fn func(uint64)) (int, error) {
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return -1, nil
		}
		fn(v)
		return n, nil
	case protowire.BytesType:
		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return -1, nil
		}
		for len(msg) > 0 {
			v, m := protowire.ConsumeVarint(msg)
			if m < 0 {
				return -1, nil
			}
			fn(v)
			msg = msg[m:]
		}
		return n, nil
	}
	return -1, fmt.Errorf("repeated varint field has wire type %d: %w", typ, errdefs.ErrInvalidArgument)
}

// toPointer applies proto int32 semantics to a decoded varint.
func toPointer(v uint64) colors.Pointer {
	return colors.Pointer(int32(int64(v)))
}

func errTruncated(what string) error {
	return fmt.Errorf("truncated %s message: %w", what, errdefs.ErrInvalidArgument)
}
