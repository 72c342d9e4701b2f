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
	"crypto/x509"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/pubdump/utils/log"
)

// Java object serialization stream constants, see
// java.io.ObjectStreamConstants.
const (
	javaStreamMagic   = 0xaced
	javaStreamVersion = 5

	tcNull          = 0x70
	tcReference     = 0x71
	tcClassDesc     = 0x72
	tcObject        = 0x73
	tcString        = 0x74
	tcArray         = 0x75
	tcClass         = 0x76
	tcBlockData     = 0x77
	tcEndBlockData  = 0x78
	tcBlockDataLong = 0x7a
	tcLongString    = 0x7c
	tcEnum          = 0x7e

	scWriteMethod    = 0x01
	scSerializable   = 0x02
	scExternalizable = 0x04
	scBlockData      = 0x08

	baseWireHandle = 0x7e0000

	// nesting limit of objects, a KeyPair needs 4
	maxJavaDepth = 32
)

const (
	javaKeyPairClass = "java.security.KeyPair"
	javaKeyRepClass  = "java.security.KeyRep"
)

type javaField struct {
	code byte
	name string
}

type javaClassDesc struct {
	name   string
	flags  byte
	fields []javaField
	super  *javaClassDesc
}

type javaObject struct {
	class  *javaClassDesc
	fields map[string]interface{}
}

type javaEnum struct {
	class *javaClassDesc
	name  string
}

// javaReader reads the subset of the serialization grammar that plain data
// classes use: objects, class descriptors, strings, arrays and enums. Proxy
// classes, exceptions and stream resets are rejected.
type javaReader struct {
	data    []byte
	pos     int
	depth   int
	handles []interface{}
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotJavaStream, format, args...)
}

// readJavaStream parses data as a stream holding exactly one top level
// object.
func readJavaStream(data []byte) (interface{}, error) {
	if len(data) < 4 || binary.BigEndian.Uint16(data) != javaStreamMagic {
		return nil, ErrNotJavaStream
	}
	if version := binary.BigEndian.Uint16(data[2:]); version != javaStreamVersion {
		return nil, malformed("unsupported stream version %d", version)
	}

	r := &javaReader{data: data, pos: 4}
	content, err := r.content()
	if err != nil {
		return nil, err
	}
	if r.pos != len(data) {
		return nil, malformed("%d trailing bytes", len(data)-r.pos)
	}
	return content, nil
}

func (r *javaReader) next(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, malformed("truncated at offset %d", r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *javaReader) u8() (byte, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *javaReader) u16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *javaReader) u32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *javaReader) utf() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n))
	return string(b), err
}

func (r *javaReader) peek() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, malformed("truncated at offset %d", r.pos)
	}
	return r.data[r.pos], nil
}

func (r *javaReader) assign(v interface{}) int {
	r.handles = append(r.handles, v)
	return len(r.handles) - 1
}

func (r *javaReader) lookup() (interface{}, error) {
	handle, err := r.u32()
	if err != nil {
		return nil, err
	}
	index := int64(handle) - baseWireHandle
	if index < 0 || index >= int64(len(r.handles)) {
		return nil, malformed("invalid handle 0x%x", handle)
	}
	return r.handles[index], nil
}

func (r *javaReader) content() (interface{}, error) {
	if r.depth++; r.depth > maxJavaDepth {
		return nil, malformed("nesting deeper than %d", maxJavaDepth)
	}
	defer func() { r.depth-- }()

	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tcNull:
		return nil, nil
	case tcReference:
		return r.lookup()
	case tcString:
		s, err := r.utf()
		if err != nil {
			return nil, err
		}
		r.assign(s)
		return s, nil
	case tcLongString:
		hi, err := r.u32()
		if err != nil {
			return nil, err
		}
		lo, err := r.u32()
		if err != nil {
			return nil, err
		}
		if hi != 0 || lo > uint32(len(r.data)) {
			return nil, malformed("long string of %d bytes", uint64(hi)<<32|uint64(lo))
		}
		b, err := r.next(int(lo))
		if err != nil {
			return nil, err
		}
		r.assign(string(b))
		return string(b), nil
	case tcClassDesc:
		return r.newClassDesc()
	case tcClass:
		desc, err := r.classDesc()
		if err != nil {
			return nil, err
		}
		r.assign(desc)
		return desc, nil
	case tcObject:
		return r.object()
	case tcArray:
		return r.array()
	case tcEnum:
		return r.enum()
	default:
		return nil, malformed("unexpected type code 0x%02x at offset %d", tag, r.pos-1)
	}
}

// classDesc reads a class descriptor, a reference to one, or null.
func (r *javaReader) classDesc() (*javaClassDesc, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tcNull:
		return nil, nil
	case tcClassDesc:
		return r.newClassDesc()
	case tcReference:
		v, err := r.lookup()
		if err != nil {
			return nil, err
		}
		desc, ok := v.(*javaClassDesc)
		if !ok {
			return nil, malformed("handle does not refer to a class descriptor")
		}
		return desc, nil
	default:
		return nil, malformed("unexpected class descriptor code 0x%02x", tag)
	}
}

func (r *javaReader) newClassDesc() (desc *javaClassDesc, err error) {
	desc = &javaClassDesc{}
	if desc.name, err = r.utf(); err != nil {
		return
	}
	// serialVersionUID
	if _, err = r.next(8); err != nil {
		return
	}
	r.assign(desc)
	if desc.flags, err = r.u8(); err != nil {
		return
	}
	count, err := r.u16()
	if err != nil {
		return
	}
	for i := 0; i < int(count); i++ {
		var f javaField
		if f.code, err = r.u8(); err != nil {
			return
		}
		if f.name, err = r.utf(); err != nil {
			return
		}
		if _, primitive := primitiveSize[f.code]; !primitive {
			if f.code != 'L' && f.code != '[' {
				return nil, malformed("field %s has type code %q", f.name, f.code)
			}
			var typeName interface{}
			if typeName, err = r.content(); err != nil {
				return
			}
			if _, ok := typeName.(string); !ok {
				return nil, malformed("field %s has no type name", f.name)
			}
		}
		desc.fields = append(desc.fields, f)
	}
	if err = r.annotation(); err != nil {
		return
	}
	desc.super, err = r.classDesc()
	return
}

var primitiveSize = map[byte]int{
	'B': 1, 'C': 2, 'D': 8, 'F': 4, 'I': 4, 'J': 8, 'S': 2, 'Z': 1,
}

// annotation skips block data and objects up to TC_ENDBLOCKDATA.
func (r *javaReader) annotation() error {
	for {
		tag, err := r.peek()
		if err != nil {
			return err
		}
		switch tag {
		case tcEndBlockData:
			r.pos++
			return nil
		case tcBlockData:
			r.pos++
			n, err := r.u8()
			if err != nil {
				return err
			}
			if _, err = r.next(int(n)); err != nil {
				return err
			}
		case tcBlockDataLong:
			r.pos++
			n, err := r.u32()
			if err != nil {
				return err
			}
			if _, err = r.next(int(int32(n))); err != nil {
				return err
			}
		default:
			if _, err = r.content(); err != nil {
				return err
			}
		}
	}
}

func (r *javaReader) object() (*javaObject, error) {
	desc, err := r.classDesc()
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, malformed("object without class")
	}
	obj := &javaObject{class: desc, fields: make(map[string]interface{})}
	r.assign(obj)

	// class data is written from the topmost serializable super class down
	var chain []*javaClassDesc
	for c := desc; c != nil; c = c.super {
		chain = append(chain, c)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		if c.flags&scExternalizable != 0 {
			if c.flags&scBlockData == 0 {
				return nil, malformed("externalizable class %s without block data", c.name)
			}
			if err = r.annotation(); err != nil {
				return nil, err
			}
			continue
		}
		if c.flags&scSerializable == 0 {
			continue
		}
		for _, f := range c.fields {
			if size, primitive := primitiveSize[f.code]; primitive {
				if _, err = r.next(size); err != nil {
					return nil, err
				}
				continue
			}
			if obj.fields[f.name], err = r.content(); err != nil {
				return nil, err
			}
		}
		if c.flags&scWriteMethod != 0 {
			if err = r.annotation(); err != nil {
				return nil, err
			}
		}
	}
	return obj, nil
}

func (r *javaReader) array() (interface{}, error) {
	desc, err := r.classDesc()
	if err != nil {
		return nil, err
	}
	if desc == nil || len(desc.name) < 2 || desc.name[0] != '[' {
		return nil, malformed("array without array class")
	}
	handle := r.assign(nil)
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	size := int(int32(n))
	if size < 0 {
		return nil, malformed("negative array size %d", size)
	}

	elem := desc.name[1]
	if width, primitive := primitiveSize[elem]; primitive {
		if size > (len(r.data)-r.pos)/width {
			return nil, malformed("truncated at offset %d", r.pos)
		}
		b, _ := r.next(size * width)
		if elem != 'B' {
			return nil, nil
		}
		value := append([]byte(nil), b...)
		r.handles[handle] = value
		return value, nil
	}

	// every element takes at least one byte
	if size > len(r.data)-r.pos {
		return nil, malformed("truncated at offset %d", r.pos)
	}
	values := make([]interface{}, size)
	for i := range values {
		if values[i], err = r.content(); err != nil {
			return nil, err
		}
	}
	r.handles[handle] = values
	return values, nil
}

func (r *javaReader) enum() (*javaEnum, error) {
	desc, err := r.classDesc()
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, malformed("enum without class")
	}
	e := &javaEnum{class: desc}
	r.assign(e)
	name, err := r.content()
	if err != nil {
		return nil, err
	}
	var ok bool
	if e.name, ok = name.(string); !ok {
		return nil, malformed("enum constant of %s has no name", desc.name)
	}
	return e, nil
}

// keyRep returns the encoded key of a java.security.KeyRep object, the
// replacement Java writes for every serialized key.
func keyRep(v interface{}, keyType, format string) (encoded []byte, algorithm string, err error) {
	if v == nil {
		return nil, "", errors.Wrapf(ErrIncompleteKeyPair, "no %s key", keyType)
	}
	rep, ok := v.(*javaObject)
	if !ok || rep.class.name != javaKeyRepClass {
		return nil, "", malformed("%s key is not a %s", keyType, javaKeyRepClass)
	}
	if t, ok := rep.fields["type"].(*javaEnum); !ok || t.name != keyType {
		return nil, "", malformed("%s key has wrong key type", keyType)
	}
	if f, _ := rep.fields["format"].(string); f != format {
		return nil, "", malformed("%s key has format %q, expected %q", keyType, f, format)
	}
	algorithm, _ = rep.fields["algorithm"].(string)
	if encoded, _ = rep.fields["encoded"].([]byte); len(encoded) == 0 {
		return nil, "", errors.Wrapf(ErrIncompleteKeyPair, "%s key has no encoding", keyType)
	}
	return
}

// decodeJava decodes a java.security.KeyPair written by ObjectOutputStream.
// Both keys are required: the PKCS#8 private key and the X.509 public key,
// which must belong together.
func decodeJava(data []byte) (*KeyPair, error) {
	content, err := readJavaStream(data)
	if err != nil {
		return nil, err
	}
	pair, ok := content.(*javaObject)
	if !ok || pair.class.name != javaKeyPairClass {
		return nil, malformed("top level object is not a %s", javaKeyPairClass)
	}

	privDER, _, err := keyRep(pair.fields["privateKey"], "PRIVATE", "PKCS#8")
	if err != nil {
		return nil, err
	}
	pubDER, algorithm, err := keyRep(pair.fields["publicKey"], "PUBLIC", "X.509")
	if err != nil {
		return nil, err
	}
	log.WithField("algorithm", algorithm).Debug("read java key pair")

	priv, err := x509.ParsePKCS8PrivateKey(privDER)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedKey, "parse private key: %v", err)
	}
	if _, err = x509.ParsePKIXPublicKey(pubDER); err != nil {
		return nil, errors.Wrapf(ErrUnsupportedKey, "parse public key: %v", err)
	}
	return pairKeys(FormatJava, pubDER, priv)
}
