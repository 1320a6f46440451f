package status

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name string
		path string
		info FileInfo
		want string
	}{
		{
			name: "created_file",
			path: "test.txt",
			info: FileInfo{Status: StatusCreated},
			want: "✨ Created test.txt",
		},
		{
			name: "modified_file_with_strategy",
			path: "config.yaml",
			info: FileInfo{Status: StatusModified, Strategy: "replace_between"},
			want: "📝 Modified config.yaml (replace_between)",
		},
		{
			name: "modified_file",
			path: "config.yaml",
			info: FileInfo{Status: StatusModified},
			want: "📝 Modified config.yaml",
		},
		{
			name: "skipped_file",
			path: "gone.txt",
			info: FileInfo{Status: StatusSkipped},
			want: "⏭️  Skipped gone.txt",
		},
		{
			name: "failed_file",
			path: "bad.txt",
			info: FileInfo{Status: StatusFailed},
			want: "❌ Failed bad.txt",
		},
		{
			name: "unchanged_file",
			path: "stable.txt",
			info: FileInfo{Status: StatusUnchanged},
			want: "👍 Unchanged stable.txt",
		},
	}

	formatter := NewDefaultFileFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatFileOperation(tt.path, tt.info))
		})
	}
}

func TestDefaultFileFormatter_FormatProgress(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{name: "start", current: 0, total: 4, want: "⏳ Progress: 0/4 (0%)"},
		{name: "halfway", current: 2, total: 4, want: "⏳ Progress: 2/4 (50%)"},
		{name: "done", current: 4, total: 4, want: "✅ Progress: 4/4 (100%)"},
		{name: "empty", current: 0, total: 0, want: "✅ Progress: 0/0 (0%)"},
	}

	formatter := NewDefaultFileFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

func TestDefaultFileFormatter_FormatError(t *testing.T) {
	formatter := NewDefaultFileFormatter()
	assert.Equal(t, "", formatter.FormatError(nil))
	assert.Equal(t, "❌ Error: boom", formatter.FormatError(fmt.Errorf("boom")))
}

func TestFormatFileLine(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	line := FormatFileLine(FileInfo{Path: "main.go", Status: StatusModified, Strategy: "append"})
	assert.True(t, strings.HasPrefix(line, "    ⟳ main.go"), "got %q", line)
	assert.Contains(t, line, "modified")
	assert.Contains(t, line, "append")
	assert.GreaterOrEqual(t, strings.Index(line, "modified"), fileIndent+2+nameWidth)
}

func TestRelativeFileFormatter(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work", "repo")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "under_base", path: filepath.Join(base, "docs", "a.md"), want: "📝 Modified " + filepath.Join("docs", "a.md")},
		{name: "outside_base", path: filepath.Join(string(filepath.Separator), "etc", "hosts"), want: "📝 Modified " + filepath.Join(string(filepath.Separator), "etc", "hosts")},
		{name: "already_relative", path: "notes.txt", want: "📝 Modified notes.txt"},
	}

	formatter := NewRelativeFileFormatter(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatFileOperation(tt.path, FileInfo{Status: StatusModified}))
		})
	}

	assert.Equal(t, "⏳ Progress: 1/2 (50%)", formatter.FormatProgress(1, 2), "progress should use the wrapped formatter")
}

func TestManager_WithFormatter(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	mgr := New(dir).WithFormatter(NewRelativeFileFormatter(dir))
	mgr.TrackFile(ctx, filepath.Join(dir, "sub", "x.txt"), FileInfo{Status: StatusCreated})

	assert.Contains(t, buf.String(), "Created "+filepath.Join("sub", "x.txt"), "tracked message should use the relative path")
	assert.NotContains(t, buf.String(), "Created "+dir, "tracked message should not carry the base dir")
}
