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

package utils

import (
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// HomeDirExpand tries to expand the tilde (~) in the front of a path
// to a fullpath directory.
func HomeDirExpand(path string) string {
	usr, err := user.Current()
	if err != nil {
		return path
	}

	if path == "~" {
		return usr.HomeDir
	} else if strings.HasPrefix(path, "~/") {
		return filepath.Join(usr.HomeDir, strings.TrimPrefix(path, "~/"))
	}

	return path
}

// Exist return if file or path is exist.
func Exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}

// WriteFileAtomic writes data to a temp file in the directory of path and
// renames it over path, so path is either left untouched or fully replaced.
// A symlink at path is followed, and an existing file keeps its permission
// bits; perm applies to new files only.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	cleanPath := filepath.Clean(path)
	if resolved, evalErr := filepath.EvalSymlinks(cleanPath); evalErr == nil {
		cleanPath = resolved
	}
	if info, statErr := os.Stat(cleanPath); statErr == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}
	tmp, err := ioutil.TempFile(filepath.Dir(cleanPath), "."+filepath.Base(cleanPath)+".tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file failed")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file failed")
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "sync temp file failed")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file failed")
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return errors.Wrap(err, "chmod temp file failed")
	}
	if err = os.Rename(tmpName, cleanPath); err != nil {
		return errors.Wrapf(err, "rename to %s failed", cleanPath)
	}
	return nil
}
