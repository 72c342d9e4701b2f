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
	"bytes"
	"crypto"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"

	"github.com/pkg/errors"
)

// parsePrivateDER tries PKCS#8, PKCS#1 and SEC1 in order.
func parsePrivateDER(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, ErrUnsupportedKey
}

func algorithmName(pub crypto.PublicKey) string {
	switch pub.(type) {
	case *rsa.PublicKey:
		return "RSA"
	case *ecdsa.PublicKey:
		return "ECDSA"
	case ed25519.PublicKey:
		return "Ed25519"
	case *dsa.PublicKey:
		return "DSA"
	default:
		return "unknown"
	}
}

// publicOf derives the PKIX encoding of the public half of priv.
func publicOf(priv crypto.PrivateKey) (der []byte, algorithm string, err error) {
	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, "", errors.Wrapf(ErrUnsupportedKey, "private key type %T", priv)
	}
	pub := signer.Public()
	if der, err = x509.MarshalPKIXPublicKey(pub); err != nil {
		return nil, "", errors.Wrap(err, "marshal public key failed")
	}
	return der, algorithmName(pub), nil
}

// pairKeys builds the KeyPair out of the halves found in a key file, either
// may be nil.
func pairKeys(format Format, pubDER []byte, priv crypto.PrivateKey) (*KeyPair, error) {
	if priv != nil {
		derived, algorithm, err := publicOf(priv)
		if err != nil {
			return nil, err
		}
		if pubDER != nil && !bytes.Equal(pubDER, derived) {
			return nil, ErrKeyMismatch
		}
		return &KeyPair{
			Format:     format,
			Algorithm:  algorithm,
			PublicKey:  derived,
			PrivateKey: priv,
		}, nil
	}

	if pubDER == nil {
		return nil, ErrNoPublicKey
	}
	pub, err := x509.ParsePKIXPublicKey(pubDER)
	if err != nil {
		return nil, errors.Wrap(err, "parse public key failed")
	}
	return &KeyPair{
		Format:    format,
		Algorithm: algorithmName(pub),
		PublicKey: append([]byte(nil), pubDER...),
	}, nil
}
