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

import "github.com/pkg/errors"

var (
	// ErrUnknownFormat indicates the requested key file format is not supported.
	ErrUnknownFormat = errors.New("unknown key file format")
	// ErrNotJavaStream indicates the data is not a Java serialization stream.
	ErrNotJavaStream = errors.New("not a java serialization stream")
	// ErrIncompleteKeyPair indicates a serialized key pair lacks one of its keys.
	ErrIncompleteKeyPair = errors.New("incomplete key pair")
	// ErrNoPEMBlock indicates no PEM block was found in the data.
	ErrNoPEMBlock = errors.New("no PEM block found")
	// ErrEncryptedPEM indicates a password protected PEM block.
	ErrEncryptedPEM = errors.New("encrypted PEM block is not supported")
	// ErrUnsupportedKey indicates the key bytes match none of the known encodings.
	ErrUnsupportedKey = errors.New("unsupported key encoding")
	// ErrNoPublicKey indicates neither a public key nor a private key to derive it from was found.
	ErrNoPublicKey = errors.New("no public key found")
	// ErrKeyMismatch indicates the stored public key does not belong to the stored private key.
	ErrKeyMismatch = errors.New("public key does not match private key")
)
