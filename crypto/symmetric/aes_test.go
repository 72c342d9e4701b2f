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

package symmetric

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	pcrypto "github.com/CovenantSQL/pubdump/crypto"
)

const (
	password = "CovenantSQL.io"
	salt     = "auxten-key-salt-auxten"
)

// encrypt produces IV || AES-256-CBC(PKCS#7 padded in) with a fixed IV.
func encrypt(in, password, salt []byte) []byte {
	pad := aes.BlockSize - len(in)%aes.BlockSize
	padded := append(append([]byte(nil), in...), bytes.Repeat([]byte{byte(pad)}, pad)...)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, bytes.Repeat([]byte{0x5a}, aes.BlockSize))
	block, _ := aes.NewCipher(DeriveKey(password, salt))
	cipher.NewCBCEncrypter(block, out[:aes.BlockSize]).CryptBlocks(out[aes.BlockSize:], padded)
	return out
}

func TestDeriveKey(t *testing.T) {
	Convey("double sha256 of password and salt", t, func() {
		key := DeriveKey([]byte("pass"), []byte(salt))
		So(key, ShouldHaveLength, 32)
		So(hex.EncodeToString(key), ShouldEqual,
			hex.EncodeToString(DeriveKey([]byte("pa"), []byte("ss"+salt))))
		So(DeriveKey(nil, []byte(salt)), ShouldResemble, DeriveKey([]byte{}, []byte(salt)))
	})
}

func TestDecryptWithPassword(t *testing.T) {
	Convey("decrypt 0 length bytes", t, func() {
		enc := encrypt(nil, []byte(password), []byte(salt))
		So(enc, ShouldHaveLength, 2*aes.BlockSize)

		dec, err := DecryptWithPassword(enc, []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		So(dec, ShouldNotBeNil)
		So(dec, ShouldHaveLength, 0)
	})

	Convey("decrypt 1747 length bytes", t, func() {
		in := bytes.Repeat([]byte{0xff}, 1747)
		enc := encrypt(in, []byte(password), []byte(salt))
		So(enc, ShouldHaveLength, (1747/aes.BlockSize+2)*aes.BlockSize)

		dec, err := DecryptWithPassword(enc, []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		So(dec, ShouldResemble, in)
	})

	Convey("decrypt error length bytes", t, func() {
		for _, in := range [][]byte{
			bytes.Repeat([]byte{0xff}, 1747),
			bytes.Repeat([]byte{0xff}, aes.BlockSize),
			nil,
		} {
			dec, err := DecryptWithPassword(in, []byte(password), []byte(salt))
			So(dec, ShouldBeNil)
			So(err, ShouldEqual, ErrInputSize)
		}
	})

	Convey("decrypt with wrong password", t, func() {
		in := bytes.Repeat([]byte{0x42}, 32)
		enc := encrypt(in, []byte(password), []byte(salt))

		dec, err := DecryptWithPassword(enc, []byte("wrong"), []byte(salt))
		// a wrong key yields garbage that almost never carries valid padding
		if err == nil {
			So(dec, ShouldNotResemble, in)
		} else {
			So(err, ShouldEqual, pcrypto.ErrInvalidPadding)
		}
	})
}
