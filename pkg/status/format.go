package status

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	statusWidth  = 12 // Width for status text
	strategyWide = 20 // Width for strategy text
)

// FileFormatter defines how file operations and status should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a file operation status message
	FormatFileOperation(path string, info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file operation status message with emojis
func (f *DefaultFileFormatter) FormatFileOperation(path string, info FileInfo) string {
	switch info.Status {
	case StatusCreated:
		return fmt.Sprintf("✨ Created %s", path)
	case StatusModified:
		if info.Strategy != "" {
			return fmt.Sprintf("📝 Modified %s (%s)", path, info.Strategy)
		}
		return fmt.Sprintf("📝 Modified %s", path)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// RelativeFileFormatter shows paths relative to a base directory and defers
// everything else to another formatter
type RelativeFileFormatter struct {
	FileFormatter
	base string
}

// NewRelativeFileFormatter wraps the default formatter with paths shown relative to base
func NewRelativeFileFormatter(base string) *RelativeFileFormatter {
	return &RelativeFileFormatter{FileFormatter: NewDefaultFileFormatter(), base: base}
}

// FormatFileOperation formats path relative to the base directory when it lies under it
func (f *RelativeFileFormatter) FormatFileOperation(path string, info FileInfo) string {
	return f.FileFormatter.FormatFileOperation(RelPath(f.base, path), info)
}

// RelPath returns path relative to base, or path unchanged when it lies outside base
func RelPath(base, path string) string {
	if base == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// 🎯 FormatFileLine formats a tracked file as an aligned, colored console line
func FormatFileLine(info FileInfo) string {
	var prefix string
	switch info.Status {
	case StatusCreated:
		prefix = color.GreenString("✓")
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		fmt.Sprintf("%-*s", nameWidth, info.Path),
		fmt.Sprintf("%-*s", statusWidth, info.Status.String()),
		fmt.Sprintf("%-*s", strategyWide, info.Strategy),
	)
}
