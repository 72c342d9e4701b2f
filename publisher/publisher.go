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

// Package publisher exports the public key of a stored key pair as
// lowercase hex text.
package publisher

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/pubdump/conf"
	"github.com/CovenantSQL/pubdump/keyfile"
	"github.com/CovenantSQL/pubdump/utils"
	"github.com/CovenantSQL/pubdump/utils/log"
)

// Console messages, exactly one of them is printed per run.
const (
	msgNotFound = "Could not find %s file"
	msgWritten  = "Public key written to file: %s"
	msgFailed   = "Could not read asymmetric keys"
)

// Result is the outcome of a run.
type Result int

const (
	// ResultNotFound means the key file is missing and nothing was written.
	ResultNotFound Result = iota
	// ResultWritten means the output file holds the hex encoded public key.
	ResultWritten
	// ResultFailed means the key file could not be read, decoded or exported.
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultNotFound:
		return "NotFound"
	case ResultWritten:
		return "Written"
	case ResultFailed:
		return "Failed"
	}
	return "Unknown"
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithDecoder overrides the key file decoder selected by the config format.
func WithDecoder(d keyfile.Decoder) Option {
	return func(p *Publisher) {
		p.decoder = d
	}
}

// WithOutput sets the console writer, os.Stdout by default.
func WithOutput(w io.Writer) Option {
	return func(p *Publisher) {
		p.console = w
	}
}

// Publisher reads a key pair file and writes its public key as hex.
type Publisher struct {
	cfg     *conf.Config
	decoder keyfile.Decoder
	console io.Writer
}

// New creates a Publisher, a nil cfg means conf.DefaultConfig().
func New(cfg *conf.Config, opts ...Option) *Publisher {
	if cfg == nil {
		cfg = conf.DefaultConfig()
	}
	p := &Publisher{
		cfg:     cfg,
		console: os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one publish pass and prints its status line. The not found
// case is reported through the Result only; failures also return an *Error.
func (p *Publisher) Run() (Result, error) {
	keyFile, outFile := p.cfg.KeyFile, p.cfg.OutputFile

	if !utils.Exist(keyFile) {
		log.WithField("path", keyFile).Debug("key file not found")
		p.printf(msgNotFound, keyFile)
		return ResultNotFound, nil
	}

	pubHex, err := p.export(keyFile)
	if err == nil {
		err = p.write(outFile, pubHex)
	}
	if err != nil {
		log.WithError(err).WithField("path", keyFile).Debug("publish public key failed")
		p.printf(msgFailed)
		return ResultFailed, err
	}

	p.printf(msgWritten, outFile)
	return ResultWritten, nil
}

// export reads and decodes keyFile, returns the hex encoded public key.
func (p *Publisher) export(keyFile string) (string, error) {
	data, err := readFile(keyFile)
	if err != nil {
		return "", &Error{Kind: KindIO, Err: err}
	}

	decoder, err := p.getDecoder()
	if err != nil {
		return "", &Error{Kind: KindDecode, Err: err}
	}
	kp, err := decoder.Decode(data)
	if err != nil {
		return "", &Error{Kind: KindDecode, Err: errors.Wrap(err, "decode key file failed")}
	}
	if len(kp.PublicKey) == 0 {
		return "", &Error{Kind: KindDecode, Err: keyfile.ErrNoPublicKey}
	}

	log.WithFields(log.Fields{
		"format":      kp.Format,
		"algorithm":   kp.Algorithm,
		"fingerprint": kp.Fingerprint().String(),
	}).Debug("decoded key pair")

	return hex.EncodeToString(kp.PublicKey), nil
}

func (p *Publisher) write(outFile string, pubHex string) error {
	if err := utils.WriteFileAtomic(outFile, []byte(pubHex), conf.OutputFilePerm); err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	return nil
}

func (p *Publisher) getDecoder() (keyfile.Decoder, error) {
	if p.decoder != nil {
		return p.decoder, nil
	}
	format, err := keyfile.ParseFormat(p.cfg.Format)
	if err != nil {
		return nil, err
	}
	return keyfile.NewDecoder(format, p.cfg.MasterKey)
}

func (p *Publisher) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.console, format+"\n", args...)
}

func readFile(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open key file failed")
	}
	defer f.Close()

	if data, err = ioutil.ReadAll(f); err != nil {
		return nil, errors.Wrap(err, "read key file failed")
	}
	return
}
