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

package conf

import (
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/CovenantSQL/pubdump/utils"
	"github.com/CovenantSQL/pubdump/utils/log"
)

// Config holds all the config of the key publisher.
type Config struct {
	// ToolName names the key pair producer, the default key file is
	// ".<ToolName>.beacon_keys".
	ToolName   string `yaml:"ToolName"`
	KeyFile    string `yaml:"KeyFile"`
	OutputFile string `yaml:"OutputFile"`
	// Format is one of auto, java, pem, der, kms.
	Format   string `yaml:"Format"`
	LogLevel string `yaml:"LogLevel"`

	// MasterKey decrypts kms key files, never read from or written to yaml.
	MasterKey []byte `yaml:"-"`
}

// DefaultConfig returns the config used when no config file is given.
func DefaultConfig() *Config {
	c := &Config{}
	c.Sanitize()
	return c
}

// Sanitize fills empty fields with defaults and expands home dirs.
func (c *Config) Sanitize() {
	if c.ToolName == "" {
		c.ToolName = DefaultToolName
	}
	if c.KeyFile == "" {
		c.KeyFile = KeyFileName(c.ToolName)
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.KeyFile = utils.HomeDirExpand(c.KeyFile)
	c.OutputFile = utils.HomeDirExpand(c.OutputFile)
}

// LoadConfig loads config from configPath, missing fields get defaults.
func LoadConfig(configPath string) (config *Config, err error) {
	configBytes, err := ioutil.ReadFile(utils.HomeDirExpand(configPath))
	if err != nil {
		log.WithError(err).Error("read config file failed")
		return nil, errors.Wrap(err, "read config file failed")
	}
	config = &Config{}
	if err = yaml.Unmarshal(configBytes, config); err != nil {
		log.WithError(err).Error("unmarshal config file failed")
		return nil, errors.Wrap(err, "unmarshal config file failed")
	}
	config.Sanitize()
	return
}
