/*
 * Copyright 2019 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package hash

import "encoding/hex"

// HashSize of array used to store hashes.  See Hash.
const HashSize = 32

// Hash is a fixed size digest.
type Hash [HashSize]byte

// String returns the hexadecimal string of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
