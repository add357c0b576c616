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

import "github.com/google/uuid"

// GenerateUUID mints an identity for a synthesized object type. Producers
// that derive identities from source locations should prefer those; this
// is for types with no stable origin, e.g. test data or merger-invented
// records.
func GenerateUUID() string {
	return uuid.NewString()
}
