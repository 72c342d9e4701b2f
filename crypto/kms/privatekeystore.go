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

package kms

import (
	"bytes"
	"errors"

	ec "github.com/btcsuite/btcd/btcec"

	"github.com/CovenantSQL/pubdump/crypto/hash"
	"github.com/CovenantSQL/pubdump/crypto/symmetric"
	"github.com/CovenantSQL/pubdump/utils/log"
)

var (
	// ErrNotKeyFile indicates the decrypted content is not hash plus key.
	ErrNotKeyFile = errors.New("private key file empty")
	// ErrHashNotMatch indicates specified key hash is wrong
	ErrHashNotMatch = errors.New("private key hash not match")
)

// keyFileSalt is the salt used by CovenantSQL for private key encryption.
var keyFileSalt = []byte("auxten-key-salt-auxten")

// DecodePrivateKey decrypts key file content with masterKey and verifies the
// hash head.
func DecodePrivateKey(fileContent []byte, masterKey []byte) (*ec.PrivateKey, error) {
	plain, err := symmetric.DecryptWithPassword(fileContent, masterKey, keyFileSalt)
	if err != nil {
		log.WithError(err).Debug("decrypt private key failed")
		return nil, err
	}

	// double sha256 + private key
	if len(plain) != hash.HashBSize+ec.PrivKeyBytesLen {
		log.WithField("size", len(plain)).Debug("unexpected private key file size")
		return nil, ErrNotKeyFile
	}
	keyHash, keyBytes := plain[:hash.HashBSize], plain[hash.HashBSize:]
	if !bytes.Equal(hash.DoubleHashB(keyBytes), keyHash) {
		return nil, ErrHashNotMatch
	}

	key, _ := ec.PrivKeyFromBytes(ec.S256(), keyBytes)
	return key, nil
}
