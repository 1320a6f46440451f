// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/edit"
)

var _ edit.Storage = (*overlay)(nil)

// 🪞 overlay is the storage of a dry run. Writes land in memory and later
// reads of the same path see them, so a chain of edits on one file computes
// what a real run would write. Nothing reaches the underlying storage.
type overlay struct {
	base edit.Storage

	mu    sync.RWMutex
	files map[string][]byte
}

func newOverlay(base edit.Storage) *overlay {
	return &overlay{base: base, files: map[string][]byte{}}
}

func (o *overlay) lookup(path string) ([]byte, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	content, ok := o.files[filepath.Clean(path)]
	return content, ok
}

func (o *overlay) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if content, ok := o.lookup(path); ok {
		return append([]byte(nil), content...), nil
	}
	return o.base.ReadFile(ctx, path)
}

func (o *overlay) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[filepath.Clean(path)] = append([]byte(nil), content...)
	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("held dry run write")
	return nil
}

func (o *overlay) FileExists(ctx context.Context, path string) (bool, error) {
	if _, ok := o.lookup(path); ok {
		return true, nil
	}
	return o.base.FileExists(ctx, path)
}

// CreateDir is a no-op; held files need no parent on disk.
func (o *overlay) CreateDir(ctx context.Context, path string) error {
	return nil
}

// BackupFile reports that nothing was backed up.
func (o *overlay) BackupFile(ctx context.Context, path string) (string, error) {
	return "", nil
}
