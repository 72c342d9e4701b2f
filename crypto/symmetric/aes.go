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

// Package symmetric decrypts password protected data.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/CovenantSQL/pubdump/crypto"
	"github.com/CovenantSQL/pubdump/crypto/hash"
	"github.com/CovenantSQL/pubdump/utils/log"
)

// ErrInputSize indicates the cipher data is not IV plus whole AES blocks.
var ErrInputSize = errors.New("cipher data size not match")

// DeriveKey returns the AES-256 key of password, sha256 twice over
// password and salt.
func DeriveKey(password, salt []byte) []byte {
	buf := make([]byte, 0, len(password)+len(salt))
	buf = append(buf, password...)
	buf = append(buf, salt...)
	return hash.DoubleHashB(buf)
}

// DecryptWithPassword decrypts IV || AES-256-CBC(PKCS#7 padded data).
func DecryptWithPassword(in, password, salt []byte) ([]byte, error) {
	// at least the IV and one block
	if len(in)%aes.BlockSize != 0 || len(in) < 2*aes.BlockSize {
		log.Debugf("cipher data size %d is not a multiple of %d", len(in), aes.BlockSize)
		return nil, ErrInputSize
	}

	block, err := aes.NewCipher(DeriveKey(password, salt))
	if err != nil {
		return nil, err
	}
	plain := make([]byte, len(in)-aes.BlockSize)
	cipher.NewCBCDecrypter(block, in[:aes.BlockSize]).CryptBlocks(plain, in[aes.BlockSize:])

	return crypto.RemovePKCSPadding(plain)
}
