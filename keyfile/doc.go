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

// Package keyfile decodes stored asymmetric key pairs into a KeyPair holding
// the encoded public key.
//
// Each supported storage format has an explicit parsing contract:
//
//   java  Java object serialization stream (magic 0xACED, version 5) holding
//         exactly one java.security.KeyPair. Both keys are written by Java as
//         java.security.KeyRep objects: the private key in PKCS#8, the public
//         key as X.509 SubjectPublicKeyInfo. Both are required.
//   pem   PEM blocks: PUBLIC KEY, PRIVATE KEY, RSA PRIVATE KEY, EC PRIVATE KEY.
//   der   a single DER PKCS#8, PKCS#1 or SEC1 private key, or a PKIX public key.
//   kms   a CovenantSQL private key file, see crypto/kms.
//
// When both halves are present they must belong together. For pem and der,
// when only the private key is present the public key is derived from it. For the x509
// capable formats the public key encoding is the DER SubjectPublicKeyInfo;
// for kms it is the compressed secp256k1 point.
package keyfile
