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

package colors

import (
	"slices"

	"github.com/typepool/typepool/pkg/strtab"
)

// Equal reports structural equality of two records over the semantic
// fields only. Debug payloads never participate: two objects differing
// only in Debug are equal. Property sets compare order-insensitively;
// instance type lists compare element-wise.
func Equal(a, b Record) bool {
	switch a := a.(type) {
	case *Object:
		ob, ok := b.(*Object)
		if !ok {
			return false
		}
		return objectEqual(a, ob)
	case *Union:
		ub, ok := b.(*Union)
		if !ok {
			return false
		}
		return slices.Equal(canonicalMembers(a.Members), canonicalMembers(ub.Members))
	}
	return false
}

func objectEqual(a, b *Object) bool {
	if a.UUID != b.UUID ||
		a.IsInvalidating != b.IsInvalidating ||
		a.KeepOriginalName != b.KeepOriginalName ||
		a.MarkedConstructor != b.MarkedConstructor ||
		a.ClosureAssert != b.ClosureAssert {
		return false
	}
	if (a.Prototype == nil) != (b.Prototype == nil) {
		return false
	}
	if a.Prototype != nil && *a.Prototype != *b.Prototype {
		return false
	}
	if !slices.Equal(a.InstanceTypes, b.InstanceTypes) {
		return false
	}
	return slices.Equal(refSet(a.OwnProperties), refSet(b.OwnProperties))
}

func refSet(refs []strtab.Ref) []strtab.Ref {
	out := slices.Clone(refs)
	slices.Sort(out)
	return slices.Compact(out)
}
