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
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/pubdump/crypto/kms"
	"github.com/CovenantSQL/pubdump/utils/log"
)

// Decoder decodes key file content into a KeyPair.
type Decoder interface {
	Decode(data []byte) (*KeyPair, error)
}

// DecoderFunc adapts a function to a Decoder.
type DecoderFunc func(data []byte) (*KeyPair, error)

// Decode implements Decoder.Decode.
func (f DecoderFunc) Decode(data []byte) (*KeyPair, error) {
	return f(data)
}

var (
	// JavaDecoder decodes Java serialized key pairs.
	JavaDecoder Decoder = DecoderFunc(decodeJava)
	// PEMDecoder decodes PEM encoded keys.
	PEMDecoder Decoder = DecoderFunc(decodePEM)
	// DERDecoder decodes a single DER encoded key.
	DERDecoder Decoder = DecoderFunc(decodeDER)
)

// KMSDecoder decodes CovenantSQL private key files.
type KMSDecoder struct {
	MasterKey []byte
}

// Decode implements Decoder.Decode.
func (d *KMSDecoder) Decode(data []byte) (*KeyPair, error) {
	key, err := kms.DecodePrivateKey(data, d.MasterKey)
	if err != nil {
		return nil, errors.Wrap(err, "decode kms private key failed")
	}
	return &KeyPair{
		Format:     FormatKMS,
		Algorithm:  "secp256k1",
		PublicKey:  key.PubKey().SerializeCompressed(),
		PrivateKey: key,
	}, nil
}

// AutoDecoder detects the format of the content and decodes it, falling
// back to the kms format when the detected one fails.
type AutoDecoder struct {
	kms *KMSDecoder
}

// Decode implements Decoder.Decode.
func (d *AutoDecoder) Decode(data []byte) (kp *KeyPair, err error) {
	format := Detect(data)
	log.WithField("format", format).Debug("detected key file format")

	if kp, err = d.decoderFor(format).Decode(data); err == nil || format == FormatKMS {
		return
	}
	if fallback, fallbackErr := d.kms.Decode(data); fallbackErr == nil {
		return fallback, nil
	}
	return nil, err
}

func (d *AutoDecoder) decoderFor(format Format) Decoder {
	switch format {
	case FormatJava:
		return JavaDecoder
	case FormatPEM:
		return PEMDecoder
	case FormatDER:
		return DERDecoder
	default:
		return d.kms
	}
}

// NewDecoder returns the Decoder of format, masterKey is only used by kms
// key files.
func NewDecoder(format Format, masterKey []byte) (Decoder, error) {
	kmsDecoder := &KMSDecoder{MasterKey: masterKey}
	switch format {
	case FormatAuto:
		return &AutoDecoder{kms: kmsDecoder}, nil
	case FormatJava:
		return JavaDecoder, nil
	case FormatPEM:
		return PEMDecoder, nil
	case FormatDER:
		return DERDecoder, nil
	case FormatKMS:
		return kmsDecoder, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %d", int(format))
	}
}

var pemPreamble = []byte("-----BEGIN ")

// Detect guesses the format of key file content.
func Detect(data []byte) Format {
	if len(data) >= 2 && binary.BigEndian.Uint16(data) == javaStreamMagic {
		return FormatJava
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), pemPreamble) {
		return FormatPEM
	}
	// ASN.1 SEQUENCE
	if len(data) > 0 && data[0] == 0x30 {
		return FormatDER
	}
	return FormatKMS
}
