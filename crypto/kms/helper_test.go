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
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"testing"

	ec "github.com/btcsuite/btcd/btcec"

	"github.com/CovenantSQL/pubdump/crypto/hash"
	"github.com/CovenantSQL/pubdump/crypto/symmetric"
)

// encryptKeyFile lays out plain the way CovenantSQL writes key files.
func encryptKeyFile(t *testing.T, plain, masterKey []byte) []byte {
	pad := aes.BlockSize - len(plain)%aes.BlockSize
	padded := append(append([]byte(nil), plain...), bytes.Repeat([]byte{byte(pad)}, pad)...)
	out := make([]byte, aes.BlockSize+len(padded))
	if _, err := io.ReadFull(rand.Reader, out[:aes.BlockSize]); err != nil {
		t.Fatalf("read iv failed: %v", err)
	}
	block, err := aes.NewCipher(symmetric.DeriveKey(masterKey, keyFileSalt))
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}
	cipher.NewCBCEncrypter(block, out[:aes.BlockSize]).CryptBlocks(out[aes.BlockSize:], padded)
	return out
}

func encodeKey(t *testing.T, key *ec.PrivateKey, masterKey []byte) []byte {
	serialized := key.Serialize()
	return encryptKeyFile(t, append(hash.DoubleHashB(serialized), serialized...), masterKey)
}

func genKey(t *testing.T) *ec.PrivateKey {
	key, err := ec.NewPrivateKey(ec.S256())
	if err != nil {
		t.Fatalf("generate key failed: %v", err)
	}
	return key
}
