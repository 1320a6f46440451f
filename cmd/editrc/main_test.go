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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/editrc/pkg/edit"
)

func execute(t *testing.T, ctx context.Context, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading file should succeed")
	return string(data)
}

func TestEditCommand(t *testing.T) {
	tests := []struct {
		name        string
		initial     *string
		stdin       string
		args        []string
		want        string
		wantOut     []string
		errContains string
	}{
		{
			name:    "creates_missing_file",
			args:    []string{"--content", "hello\n"},
			want:    "hello\n",
			wantOut: []string{"created"},
		},
		{
			name:    "replaces_between_anchors",
			initial: ptr("a\n<!-- S -->\nold\n<!-- E -->\nz\n"),
			args:    []string{"--content", "\nnew\n", "-s", "<!-- S -->", "-e", "<!-- E -->"},
			want:    "a\n<!-- S -->\nnew\n<!-- E -->\nz\n",
			wantOut: []string{"replaced_between"},
		},
		{
			name:    "content_from_stdin",
			initial: ptr("one"),
			stdin:   "two\n",
			args:    []string{"--content-file", "-"},
			want:    "one\ntwo\n",
			wantOut: []string{"appended"},
		},
		{
			name:    "pattern_anchor",
			initial: ptr("v=1.2.3;\n"),
			args:    []string{"--content", "9.9.9", "--pattern", "-s", `v=`, "-e", `;`},
			want:    "v=9.9.9;\n",
			wantOut: []string{"replaced_between"},
		},
		{
			name:        "strict_anchor_missing",
			initial:     ptr("nothing here\n"),
			args:        []string{"--content", "x", "-s", "BEGIN", "--strict"},
			want:        "nothing here\n",
			errContains: "anchors not found",
		},
		{
			name:    "lenient_missing_without_create",
			args:    []string{"--content", "x", "--no-create"},
			wantOut: []string{"not_found"},
		},
		{
			name:        "invalid_pattern",
			initial:     ptr("text\n"),
			args:        []string{"--content", "x", "--pattern", "-s", "("},
			want:        "text\n",
			errContains: "invalid anchor pattern",
		},
		{
			name:    "dry_run_prints_diff",
			initial: ptr("keep\n"),
			args:    []string{"--content", "added\n", "--dry-run"},
			want:    "keep\n",
			wantOut: []string{"+added", " keep", "dry-run"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file.txt")
			if tt.initial != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.initial), 0644), "writing file should succeed")
			}

			out, err := execute(t, context.Background(), tt.stdin, append([]string{"edit", path}, tt.args...)...)
			if tt.errContains != "" {
				require.Error(t, err, "edit should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should mention the cause")
			} else {
				require.NoError(t, err, "edit should succeed")
			}

			for _, s := range tt.wantOut {
				assert.Contains(t, out, s, "output should mention %q", s)
			}

			if tt.want == "" {
				assert.NoFileExists(t, path, "file should not exist")
				return
			}
			assert.Equal(t, tt.want, readFile(t, path), "file content should match")
		})
	}
}

func TestEditCommandJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("# <!-- X -->"), 0644), "writing file should succeed")

	out, err := execute(t, context.Background(), "", "edit", path, "--content", "!", "-s", "<!-- X -->", "--json")
	require.NoError(t, err, "edit should succeed")

	var result edit.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output should be a JSON result")
	assert.True(t, result.Success, "result should succeed")
	assert.Equal(t, edit.MessageInsertedAfterStart, result.Message, "message should match")
	assert.Equal(t, "# <!-- X -->!", result.Content, "content should match")
	assert.True(t, result.Changed, "result should be changed")
	assert.Equal(t, path, result.Path, "path should be absolute")
}

func TestEditAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0644), "writing file should succeed")

	_, err := execute(t, context.Background(), "", "edit", path, "--content", "more\n", "--backup")
	require.NoError(t, err, "edit should succeed")
	assert.Equal(t, "original\nmore\n", readFile(t, path), "file should be edited")
	assert.Equal(t, "original\n", readFile(t, path+".backup"), "backup should hold the original")

	out, err := execute(t, context.Background(), "", "restore", path)
	require.NoError(t, err, "restore should succeed")
	assert.Contains(t, out, "restored", "output should confirm the restore")
	assert.Equal(t, "original\n", readFile(t, path), "file should be restored")
	assert.NoFileExists(t, path+".backup", "backup should be removed")

	_, err = execute(t, context.Background(), "", "restore", path)
	require.Error(t, err, "restore without a backup should fail")
	assert.Contains(t, err.Error(), "backup file does not exist", "error should explain the failure")
}

func writePlan(t *testing.T, dir string) string {
	t.Helper()
	files := map[string]string{
		"README.md":       "# project\n<!-- USAGE:BEGIN -->\n<!-- USAGE:END -->\n",
		"snippets/use.md": "\nrun editrc apply\n",
		"a.go":            "package a\n",
		"b.go":            "package b\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755), "creating dir should succeed")
		require.NoError(t, os.WriteFile(p, []byte(content), 0644), "writing file should succeed")
	}

	plan := filepath.Join(dir, ".editrc.yaml")
	require.NoError(t, os.WriteFile(plan, []byte(`
async: true
edits:
  - path: README.md
    content_file: snippets/use.md
    start_anchor: "<!-- USAGE:BEGIN -->"
    end_anchor: "<!-- USAGE:END -->"
  - glob: "*.go"
    content: "// footer\n"
`), 0644), "writing plan should succeed")
	return plan
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir)

	out, err := execute(t, context.Background(), "", "apply", "--plan", plan)
	require.NoError(t, err, "apply should succeed")

	assert.Equal(t, "# project\n<!-- USAGE:BEGIN -->\nrun editrc apply\n<!-- USAGE:END -->\n", readFile(t, filepath.Join(dir, "README.md")), "readme should be updated")
	assert.Equal(t, "package a\n// footer\n", readFile(t, filepath.Join(dir, "a.go")), "a.go should be updated")
	assert.Equal(t, "package b\n// footer\n", readFile(t, filepath.Join(dir, "b.go")), "b.go should be updated")

	assert.Contains(t, out, "editrc", "output should open with the header")
	assert.Contains(t, out, "• apply", "header should name the command")
	assert.Contains(t, out, "2 edits", "output should show the plan size")
	assert.Contains(t, out, "README.md", "output should list the readme")
	assert.Contains(t, out, "modified", "summary should count modified files")

	var fileLines []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 4 && fields[0] == "⟳" {
			fileLines = append(fileLines, strings.Join(fields[1:], " "))
		}
	}
	assert.Equal(t, []string{
		"README.md modified replaced_between",
		"a.go modified appended",
		"b.go modified appended",
	}, fileLines, "every edited file should be listed once with its status")
}

func TestApplyCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir)

	out, err := execute(t, context.Background(), "", "apply", "--plan", plan, "--dry-run")
	require.NoError(t, err, "apply should succeed")

	assert.Equal(t, "package a\n", readFile(t, filepath.Join(dir, "a.go")), "dry run should not write")
	assert.Contains(t, out, "+// footer", "output should show the diff")
	assert.Contains(t, out, "dry-run", "output should show the mode")
	assert.Contains(t, out, "apply (dry run)", "header should show the mode")
}

func TestApplyCommandMissingPlan(t *testing.T) {
	_, err := execute(t, context.Background(), "", "apply", "--plan", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "apply should fail")
	assert.Contains(t, err.Error(), "loading plan", "error should mention the plan")
}

func TestWatchCommandStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	plan := writePlan(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, "", "watch", "--plan", plan)
	require.NoError(t, err, "watch should stop cleanly when the context ends")
	assert.Contains(t, out, "3 edits changed files", "watch should report the changes of its first run")
	assert.Equal(t, "package a\n// footer\n", readFile(t, filepath.Join(dir, "a.go")), "watch should apply once on start")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "", "version", "--json")
	require.NoError(t, err, "version should succeed")

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info), "output should be JSON")
	assert.NotEmpty(t, info.GoVersion, "go version should be set")
	assert.NotEmpty(t, info.Platform, "platform should be set")

	out, err = execute(t, context.Background(), "", "version")
	require.NoError(t, err, "version should succeed")
	assert.Contains(t, out, "editrc version info", "output should have a header")
}

func ptr[T any](v T) *T { return &v }
