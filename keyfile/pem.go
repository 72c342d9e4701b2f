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
	"crypto/x509"
	"encoding/pem"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/pubdump/utils/log"
)

// PEM block types understood by the pem format.
const (
	PEMTypePublicKey    = "PUBLIC KEY"
	PEMTypePrivateKey   = "PRIVATE KEY"
	PEMTypeRSAPrivate   = "RSA PRIVATE KEY"
	PEMTypeECPrivateKey = "EC PRIVATE KEY"
)

func decodePEM(data []byte) (*KeyPair, error) {
	var (
		pubDER []byte
		priv   crypto.PrivateKey
		found  bool
		block  *pem.Block
		rest   = data
	)

	for {
		if block, rest = pem.Decode(rest); block == nil {
			break
		}
		found = true

		switch block.Type {
		case PEMTypePublicKey:
			if pubDER != nil {
				continue
			}
			if _, err := x509.ParsePKIXPublicKey(block.Bytes); err != nil {
				return nil, errors.Wrap(err, "parse PUBLIC KEY block failed")
			}
			pubDER = block.Bytes
		case PEMTypePrivateKey, PEMTypeRSAPrivate, PEMTypeECPrivateKey:
			if priv != nil {
				continue
			}
			if x509.IsEncryptedPEMBlock(block) {
				return nil, ErrEncryptedPEM
			}
			key, err := parsePrivateDER(block.Bytes)
			if err != nil {
				return nil, errors.Wrapf(err, "parse %s block failed", block.Type)
			}
			priv = key
		default:
			log.WithField("type", block.Type).Debug("skip unsupported PEM block")
		}
	}

	if !found {
		return nil, ErrNoPEMBlock
	}
	return pairKeys(FormatPEM, pubDER, priv)
}

func decodeDER(data []byte) (*KeyPair, error) {
	if key, err := parsePrivateDER(data); err == nil {
		return pairKeys(FormatDER, nil, key)
	}
	if _, err := x509.ParsePKIXPublicKey(data); err == nil {
		return pairKeys(FormatDER, data, nil)
	}
	return nil, ErrUnsupportedKey
}
