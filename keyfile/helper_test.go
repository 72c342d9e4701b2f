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
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/binary"
	"encoding/hex"
	"encoding/pem"
	"io/ioutil"
	"path/filepath"
	"testing"
)

func genRSA(t *testing.T) *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate rsa key failed: %v", err)
	}
	return key
}

func genECDSA(t *testing.T) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate ecdsa key failed: %v", err)
	}
	return key
}

func genEd25519(t *testing.T) ed25519.PrivateKey {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key failed: %v", err)
	}
	return key
}

func mustPKCS8(t *testing.T, key crypto.PrivateKey) []byte {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8 failed: %v", err)
	}
	return der
}

func mustPKIX(t *testing.T, key crypto.Signer) []byte {
	der, err := x509.MarshalPKIXPublicKey(key.Public())
	if err != nil {
		t.Fatalf("marshal pkix failed: %v", err)
	}
	return der
}

func pemBlock(blockType string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
}

// javaWriter emits the serialization grammar produced by
// ObjectOutputStream.writeObject(java.security.KeyPair), assigning handles in
// the order ObjectOutputStream does.
type javaWriter struct {
	bytes.Buffer
	next    uint32
	classes map[string]uint32
	types   map[string]uint32
}

func newJavaWriter() *javaWriter {
	w := &javaWriter{
		classes: make(map[string]uint32),
		types:   make(map[string]uint32),
	}
	w.u16(javaStreamMagic)
	w.u16(javaStreamVersion)
	return w
}

func (w *javaWriter) handle() uint32 {
	h := w.next
	w.next++
	return h
}

func (w *javaWriter) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func (w *javaWriter) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func (w *javaWriter) utf(s string) {
	w.u16(uint16(len(s)))
	w.WriteString(s)
}

func (w *javaWriter) str(s string) {
	w.WriteByte(tcString)
	w.utf(s)
	w.handle()
}

func (w *javaWriter) ref(handle uint32) {
	w.WriteByte(tcReference)
	w.u32(baseWireHandle + handle)
}

// typeName writes a field type signature, signatures are interned by the JVM
// and written once.
func (w *javaWriter) typeName(s string) {
	if h, ok := w.types[s]; ok {
		w.ref(h)
		return
	}
	w.WriteByte(tcString)
	w.utf(s)
	w.types[s] = w.handle()
}

// classDesc writes the descriptor of class name or a back reference to it.
func (w *javaWriter) classDesc(name string, suid uint64, flags byte, fields [][2]string, super func()) {
	if h, ok := w.classes[name]; ok {
		w.ref(h)
		return
	}
	w.WriteByte(tcClassDesc)
	w.utf(name)
	w.u32(uint32(suid >> 32))
	w.u32(uint32(suid))
	w.classes[name] = w.handle()
	w.WriteByte(flags)
	w.u16(uint16(len(fields)))
	for _, f := range fields {
		w.WriteByte(f[1][0])
		w.utf(f[0])
		if f[1][0] == 'L' || f[1][0] == '[' {
			w.typeName(f[1])
		}
	}
	w.WriteByte(tcEndBlockData)
	if super != nil {
		super()
	} else {
		w.WriteByte(tcNull)
	}
}

func (w *javaWriter) byteArray(data []byte) {
	w.WriteByte(tcArray)
	w.classDesc("[B", 0xacf317f8060854e0, scSerializable, nil, nil)
	w.handle()
	w.u32(uint32(len(data)))
	w.Write(data)
}

func (w *javaWriter) keyRep(algorithm string, encoded []byte, format, keyType string) {
	w.WriteByte(tcObject)
	w.classDesc(javaKeyRepClass, 0xbdf94fb3889aa543, scSerializable, [][2]string{
		{"algorithm", "Ljava/lang/String;"},
		{"encoded", "[B"},
		{"format", "Ljava/lang/String;"},
		{"type", "Ljava/security/KeyRep$Type;"},
	}, nil)
	w.handle()
	w.str(algorithm)
	w.byteArray(encoded)
	w.str(format)
	w.WriteByte(tcEnum)
	w.classDesc("java.security.KeyRep$Type", 0, scSerializable|0x10, nil, func() {
		w.classDesc("java.lang.Enum", 0, scSerializable|0x10, nil, nil)
	})
	w.handle()
	w.str(keyType)
}

func (w *javaWriter) keyPairHeader() {
	w.WriteByte(tcObject)
	w.classDesc(javaKeyPairClass, 0x97030c3ad2cd1293, scSerializable, [][2]string{
		{"privateKey", "Ljava/security/PrivateKey;"},
		{"publicKey", "Ljava/security/PublicKey;"},
	}, nil)
	w.handle()
}

// javaKeyPair returns a Java serialized KeyPair, a nil half is written as
// a null reference.
func javaKeyPair(privDER, pubDER []byte) []byte {
	w := newJavaWriter()
	w.keyPairHeader()
	if privDER != nil {
		w.keyRep("RSA", privDER, "PKCS#8", "PRIVATE")
	} else {
		w.WriteByte(tcNull)
	}
	if pubDER != nil {
		w.keyRep("RSA", pubDER, "X.509", "PUBLIC")
	} else {
		w.WriteByte(tcNull)
	}
	return w.Bytes()
}

func readFixture(t *testing.T, name string) []byte {
	data, err := ioutil.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture failed: %v", err)
	}
	return data
}

func fixtureHex(t *testing.T, name string) []byte {
	b, err := hex.DecodeString(string(readFixture(t, name)))
	if err != nil {
		t.Fatalf("decode fixture hex failed: %v", err)
	}
	return b
}
