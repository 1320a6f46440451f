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

package status

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestManager_FileOperations(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		check func(t *testing.T, ctx context.Context, mgr *Manager, dir string)
	}{
		{
			name: "atomic_write_into_new_dir",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.CreateDir(ctx, "a/b"))
				require.NoError(t, mgr.WriteFileAtomic(ctx, "a/b/c.txt", []byte("hello")))

				data, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
				require.NoError(t, err)
				assert.Equal(t, "hello", string(data))

				entries, err := os.ReadDir(filepath.Join(dir, "a", "b"))
				require.NoError(t, err)
				require.Len(t, entries, 1, "temp file should be renamed away")
				assert.Equal(t, "c.txt", entries[0].Name())
			},
		},
		{
			name: "write_leaves_neighbouring_tmp_file_alone",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "x.tmp"), []byte("user data"), 0644))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "x", []byte("new")))

				data, err := os.ReadFile(filepath.Join(dir, "x.tmp"))
				require.NoError(t, err)
				assert.Equal(t, "user data", string(data), "an existing x.tmp must not be used as scratch space")

				data, err = os.ReadFile(filepath.Join(dir, "x"))
				require.NoError(t, err)
				assert.Equal(t, "new", string(data))
			},
		},
		{
			name: "concurrent_writes_to_file_and_its_tmp_name",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				var wg sync.WaitGroup
				errs := make([]error, 2)
				for i, name := range []string{"x", "x.tmp"} {
					wg.Add(1)
					go func() {
						defer wg.Done()
						errs[i] = mgr.WriteFileAtomic(ctx, name, []byte(name))
					}()
				}
				wg.Wait()
				require.NoError(t, errs[0])
				require.NoError(t, errs[1])

				for _, name := range []string{"x", "x.tmp"} {
					data, err := os.ReadFile(filepath.Join(dir, name))
					require.NoError(t, err)
					assert.Equal(t, name, string(data))
				}

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Len(t, entries, 2, "no scratch files should remain")
			},
		},
		{
			name: "write_through_symlink",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("old"), 0600))
				require.NoError(t, os.Symlink("real.txt", filepath.Join(dir, "link.txt")))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "link.txt", []byte("new")))

				info, err := os.Lstat(filepath.Join(dir, "link.txt"))
				require.NoError(t, err)
				assert.NotZero(t, info.Mode()&os.ModeSymlink, "link should still be a symlink")

				data, err := os.ReadFile(filepath.Join(dir, "real.txt"))
				require.NoError(t, err)
				assert.Equal(t, "new", string(data), "link target should receive the write")

				info, err = os.Stat(filepath.Join(dir, "real.txt"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			},
		},
		{
			name: "write_through_dangling_symlink",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.Symlink("target.txt", filepath.Join(dir, "link.txt")))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "link.txt", []byte("made")))

				info, err := os.Lstat(filepath.Join(dir, "link.txt"))
				require.NoError(t, err)
				assert.NotZero(t, info.Mode()&os.ModeSymlink, "link should still be a symlink")

				data, err := os.ReadFile(filepath.Join(dir, "target.txt"))
				require.NoError(t, err)
				assert.Equal(t, "made", string(data))
			},
		},
		{
			name: "absolute_paths_ignore_base_dir",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				other := t.TempDir()
				path := filepath.Join(other, "abs.txt")
				require.NoError(t, mgr.WriteFileAtomic(ctx, path, []byte("x")))

				data, err := mgr.ReadFile(ctx, path)
				require.NoError(t, err)
				assert.Equal(t, "x", string(data))
			},
		},
		{
			name: "atomic_write_keeps_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "script.sh"), []byte("#!/bin/sh\n"), 0755))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.WriteFileAtomic(ctx, "script.sh", []byte("#!/bin/sh\necho hi\n")))

				info, err := os.Stat(filepath.Join(dir, "script.sh"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
			},
		},
		{
			name: "file_exists",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "here.txt"), nil, 0644))
				require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
			},
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				exists, err := mgr.FileExists(ctx, "here.txt")
				require.NoError(t, err)
				assert.True(t, exists)

				exists, err = mgr.FileExists(ctx, "missing.txt")
				require.NoError(t, err)
				assert.False(t, exists)

				_, err = mgr.FileExists(ctx, "sub")
				require.Error(t, err)
				assert.Contains(t, err.Error(), "directory")
			},
		},
		{
			name: "create_dir_is_idempotent",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				require.NoError(t, mgr.CreateDir(ctx, "x/y"))
				require.NoError(t, mgr.CreateDir(ctx, "x/y"))
				info, err := os.Stat(filepath.Join(dir, "x", "y"))
				require.NoError(t, err)
				assert.True(t, info.IsDir())
			},
		},
		{
			name: "read_missing_file",
			check: func(t *testing.T, ctx context.Context, mgr *Manager, dir string) {
				_, err := mgr.ReadFile(ctx, "nope.txt")
				require.Error(t, err)
				assert.Contains(t, err.Error(), "reading file")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			tt.check(t, testContext(t), New(dir), dir)
		})
	}
}

func TestManager_Backup(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	mgr := New(dir)
	path := filepath.Join(dir, "file.txt")

	t.Run("missing_file_has_no_backup", func(t *testing.T) {
		backupPath, err := mgr.BackupFile(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, backupPath)
	})

	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	t.Run("backup_copies_content", func(t *testing.T) {
		backupPath, err := mgr.BackupFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, path+BackupSuffix, backupPath)

		data, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		assert.Equal(t, "v1", string(data))
	})

	t.Run("backup_is_overwritten", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
		backupPath, err := mgr.BackupFile(ctx, path)
		require.NoError(t, err)

		data, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))
	})

	t.Run("restore_replaces_and_removes_backup", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("v3"), 0644))
		require.NoError(t, mgr.RestoreFile(ctx, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))

		_, err = os.Stat(path + BackupSuffix)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("restore_without_backup", func(t *testing.T) {
		err := mgr.RestoreFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backup file does not exist")
	})
}

func TestManager_StatusReporter(t *testing.T) {
	ctx := testContext(t)
	mgr := New(t.TempDir())

	mgr.StartOperation(ctx, 2)
	mgr.TrackFile(ctx, "b.txt", FileInfo{Path: "b.txt", Status: StatusModified, Strategy: "append"})
	mgr.UpdateProgress(ctx, 1)
	mgr.TrackFile(ctx, "a.txt", FileInfo{Path: "a.txt", Status: StatusCreated})
	mgr.UpdateProgress(ctx, 2)
	mgr.FinishOperation(ctx)

	processed, total := mgr.Progress()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 2, total)

	info, err := mgr.GetFileInfo(ctx, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, StatusModified, info.Status)

	_, err = mgr.GetFileInfo(ctx, "c.txt")
	require.Error(t, err)

	files, err := mgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Path)
	assert.Equal(t, "b.txt", files[1].Path)

	mgr.StartOperation(ctx, 1)
	files, err = mgr.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files, "a new operation should start with no tracked files")
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Checksum([]byte("hello")))
}
