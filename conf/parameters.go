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

const (
	// DefaultToolName is the name of the tool which produces the key pair file.
	DefaultToolName = "cobaltstrike"
	// KeyFileSuffix is appended to ".<toolname>" to form the key pair file name.
	KeyFileSuffix = ".beacon_keys"
	// DefaultOutputFile is the file receiving the hex encoded public key.
	DefaultOutputFile = "publickey.txt"
	// DefaultFormat lets the key file format be detected from content.
	DefaultFormat = "auto"
	// DefaultLogLevel is the log level of the command line tools.
	DefaultLogLevel = "info"
	// OutputFilePerm is the permission of a newly written output file.
	OutputFilePerm = 0644
)

// KeyFileName returns the key pair file name produced by toolName.
func KeyFileName(toolName string) string {
	return "." + toolName + KeyFileSuffix
}
