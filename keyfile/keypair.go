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

package keyfile

import (
	"crypto"
	"strings"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/pubdump/crypto/hash"
)

// Format defines the storage format of a key file.
type Format int

const (
	// FormatAuto detects the format from the content.
	FormatAuto Format = iota
	// FormatJava is a Java serialized java.security.KeyPair.
	FormatJava
	// FormatPEM is PEM encoded keys.
	FormatPEM
	// FormatDER is a single DER encoded key.
	FormatDER
	// FormatKMS is a CovenantSQL encrypted private key file.
	FormatKMS
)

var formatNames = map[Format]string{
	FormatAuto: "auto",
	FormatJava: "java",
	FormatPEM:  "pem",
	FormatDER:  "der",
	FormatKMS:  "kms",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat parses a format name, empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatAuto, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatAuto, errors.Wrapf(ErrUnknownFormat, "format %q", s)
}

// KeyPair is a decoded key pair record.
type KeyPair struct {
	// Format is the storage format the record was decoded from.
	Format Format
	// Algorithm names the key algorithm, e.g. RSA, ECDSA, Ed25519, secp256k1.
	Algorithm string
	// PublicKey is the public key encoding.
	PublicKey []byte
	// PrivateKey is nil if the record only holds a public key.
	PrivateKey crypto.PrivateKey
}

// Fingerprint returns sha256(blake2b-512) of the public key encoding.
func (k *KeyPair) Fingerprint() hash.Hash {
	return hash.THashH(k.PublicKey)
}
