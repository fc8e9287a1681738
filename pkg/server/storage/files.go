/* Copyright 2025 Leaflog Authors
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

// Package storage saves uploaded cover images to disk
package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FileStore writes uploaded files under a base directory
type FileStore struct {
	basePath string
}

// NewFileStore creates a file store rooted at the given directory,
// creating the directory if it is missing
func NewFileStore(basePath string) (*FileStore, error) {
	if basePath == "" {
		return nil, errors.New("base path is required")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}

	return &FileStore{basePath: basePath}, nil
}

// Save writes the given content to a uniquely named file and returns
// the filename. The extension of the original filename is preserved.
func (f *FileStore) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(filepath.Base(originalName))

	out, err := os.Create(filepath.Join(f.basePath, name))
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", errors.Wrap(err, "writing file")
	}

	return name, nil
}

// Remove deletes the file with the given name. A missing file is not
// an error.
func (f *FileStore) Remove(name string) error {
	target := filepath.Join(f.basePath, filepath.Base(name))

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing file")
	}

	return nil
}

// BasePath returns the directory that files are written to
func (f *FileStore) BasePath() string {
	return f.basePath
}
