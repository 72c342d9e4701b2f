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

// Package kms reads CovenantSQL style private key files.
//
// A key file is AES-256-CBC(IV || DoubleSHA256(key) || key) where the AES key
// is derived from the master key and a fixed salt, see crypto/symmetric. The
// private key is a raw 32 bytes secp256k1 scalar.
package kms
