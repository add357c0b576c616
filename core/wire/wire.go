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

// Package wire implements the serialized form of a type pool as a
// protobuf wire-format message with fixed field numbers. Field numbers
// are format contract: they are never reused after removal, new fields
// are additive and optional, and readers skip fields they do not know so
// older consumers keep working against newer producers.
//
// Primitive types are never serialized as records. They exist only as the
// reserved low pointer range, and the ordinal assignment in colors is
// part of the contract between producers and consumers.
//
// Message layout:
//
//	TypePool         1: repeated TypeProto   2: repeated SubtypingEdge   3: DebugInfo
//	TypeProto        oneof { 1: ObjectTypeProto  2: UnionTypeProto }
//	ObjectTypeProto  1: uuid  2: own_property*  3: instance_type*  4: prototype
//	                 5: marked_constructor  6: is_invalidating
//	                 7: properties_keep_original_name  8: closure_assert
//	                 9: DebugInfo { 1: typename* }
//	UnionTypeProto   1: member*
//	SubtypingEdge    1: subtype  2: supertype
//	DebugInfo        1: repeated Mismatch
//	Mismatch         1: source_ref  2: involved_color*
//	TypePoolList     1: repeated TypePool
//
// Starred fields are repeated varints, written packed; readers accept the
// unpacked encoding as well.
package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	fieldPoolType      = protowire.Number(1)
	fieldPoolEdge      = protowire.Number(2)
	fieldPoolDebugInfo = protowire.Number(3)

	fieldTypeObject = protowire.Number(1)
	fieldTypeUnion  = protowire.Number(2)

	fieldObjectUUID             = protowire.Number(1)
	fieldObjectOwnProperty      = protowire.Number(2)
	fieldObjectInstanceType     = protowire.Number(3)
	fieldObjectPrototype        = protowire.Number(4)
	fieldObjectMarkedCtor       = protowire.Number(5)
	fieldObjectIsInvalidating   = protowire.Number(6)
	fieldObjectKeepOriginalName = protowire.Number(7)
	fieldObjectClosureAssert    = protowire.Number(8)
	fieldObjectDebugInfo        = protowire.Number(9)

	fieldObjectDebugTypename = protowire.Number(1)

	fieldUnionMember = protowire.Number(1)

	fieldEdgeSubtype   = protowire.Number(1)
	fieldEdgeSupertype = protowire.Number(2)

	fieldDebugMismatch = protowire.Number(1)

	fieldMismatchSourceRef = protowire.Number(1)
	fieldMismatchInvolved  = protowire.Number(2)

	fieldListPool = protowire.Number(1)
)
