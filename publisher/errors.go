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

package publisher

import (
	"fmt"
)

// Kind classifies a publish failure.
type Kind int

const (
	// KindNotFound means the key file does not exist. It is informational and
	// never returned as an error by Run.
	KindNotFound Kind = iota
	// KindDecode means the key file content could not be decoded into a key pair.
	KindDecode
	// KindIO means reading the key file or writing the output failed.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindDecode:
		return "DecodeFailure"
	case KindIO:
		return "IOFailure"
	}
	return "Unknown"
}

// Error is a classified publish failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Cause returns the underlying error, for github.com/pkg/errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

// KindOf returns the Kind of a publish error, ok is false for other errors.
func KindOf(err error) (kind Kind, ok bool) {
	if e, isPublishErr := err.(*Error); isPublishErr {
		return e.Kind, true
	}
	return
}
