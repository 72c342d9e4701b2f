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

// Package crypto holds the cipher helpers shared by the key stores.
package crypto

import (
	"crypto/aes"
	"errors"
)

// ErrInvalidPadding indicates the data does not end with valid PKCS#7 padding.
var ErrInvalidPadding = errors.New("invalid PKCS#7 padding")

// RemovePKCSPadding strips PKCS#7 padding with the AES block size.
func RemovePKCSPadding(src []byte) ([]byte, error) {
	length := len(src)
	if length < aes.BlockSize || length%aes.BlockSize != 0 {
		return nil, ErrInvalidPadding
	}
	padLength := int(src[length-1])
	if padLength == 0 || padLength > aes.BlockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range src[length-padLength:] {
		if int(b) != padLength {
			return nil, ErrInvalidPadding
		}
	}

	return src[:length-padLength], nil
}
