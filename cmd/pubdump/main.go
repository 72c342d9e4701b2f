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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/CovenantSQL/pubdump/conf"
	"github.com/CovenantSQL/pubdump/keyfile"
	"github.com/CovenantSQL/pubdump/publisher"
	"github.com/CovenantSQL/pubdump/utils/log"
)

var (
	version = "unknown"

	configFile   string
	keyFile      string
	outputFile   string
	format       string
	password     string
	withPassword bool
	logLevel     string
	showVersion  bool
)

const name = "pubdump"

func init() {
	flag.StringVar(&configFile, "config", "", "Config file for pubdump, optional")
	flag.StringVar(&keyFile, "key", "", "Key pair file, default .<ToolName>.beacon_keys")
	flag.StringVar(&outputFile, "out", "", "Output file for the hex encoded public key, default publickey.txt")
	flag.StringVar(&format, "format", "", "Key pair file format: auto, java, pem, der, kms")
	flag.StringVar(&password, "password", "", "Master key password for kms key files")
	flag.BoolVar(&withPassword, "with-password", false, "Enter the master key password interactively")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warning, error")
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit")
}

func main() {
	flag.Parse()
	if showVersion {
		fmt.Printf("%v %v %v %v %v\n",
			name, version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	log.SetStringLevel(cfg.LogLevel, log.InfoLevel)
	log.Debugf("pubdump build: %#v", version)

	if withPassword {
		masterKey, err := readMasterKey()
		if err != nil {
			log.WithError(err).Error("read master key failed")
			os.Exit(1)
		}
		cfg.MasterKey = masterKey
	}

	// failures are reported by the status line, exit code stays 0
	runPublish(cfg, os.Stdout)
}

// loadConfig builds the config from the optional config file, flags override
// file values.
func loadConfig() (cfg *conf.Config, err error) {
	if configFile != "" {
		if cfg, err = conf.LoadConfig(configFile); err != nil {
			return
		}
	} else {
		cfg = &conf.Config{}
	}

	if keyFile != "" {
		cfg.KeyFile = keyFile
	}
	if outputFile != "" {
		cfg.OutputFile = outputFile
	}
	if format != "" {
		cfg.Format = format
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if password != "" {
		cfg.MasterKey = []byte(password)
	}
	cfg.Sanitize()
	if _, err = keyfile.ParseFormat(cfg.Format); err != nil {
		return nil, err
	}
	return
}

func runPublish(cfg *conf.Config, console io.Writer) publisher.Result {
	result, err := publisher.New(cfg, publisher.WithOutput(console)).Run()
	if err != nil {
		kind, _ := publisher.KindOf(err)
		log.WithError(err).WithField("kind", kind).Debug("publish failed")
	}
	return result
}

func readMasterKey() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "Enter master key(press Enter for default: \"\"): ")
	bytePwd, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	return bytePwd, err
}
