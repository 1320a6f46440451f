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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/edit"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	messageWidth = 22 // Width for the result message
	detailWidth  = 15 // Width for trailing detail text
)

// 🎯 EditOperation represents a single file edit for logging
type EditOperation struct {
	Path      string // File path
	Message   string // Result message (created, appended, ...)
	Detail    string // Extra detail such as "dry-run" or a backup note
	Success   bool   // Whether the edit succeeded
	Changed   bool   // Whether the content changed
	IsCreated bool   // Whether the file was created
	DryRun    bool   // Whether nothing was written
}

// FromResult builds an EditOperation from an editor result
func FromResult(path string, r *edit.Result) EditOperation {
	op := EditOperation{
		Path:      path,
		Message:   string(r.Message),
		Success:   r.Success,
		Changed:   r.Changed,
		IsCreated: r.Message == edit.MessageCreated,
		DryRun:    r.DryRun,
	}
	switch {
	case r.DryRun:
		op.Detail = "dry-run"
	case r.BackupErr != nil:
		op.Detail = "no backup"
	case r.BackupPath != "":
		op.Detail = "backed up"
	}
	return op
}

// 📦 PlanOperation represents a plan run for logging
type PlanOperation struct {
	Path    string // Plan file path
	Entries int    // Number of edits in the plan
	DryRun  bool   // Whether the run writes nothing
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *PlanOperation
	operations []EditOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEditOperation formats an edit operation for display
func (l *Logger) formatEditOperation(op EditOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case !op.Success:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsCreated:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.Changed:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var messageColor color.Attribute
	switch {
	case !op.Success:
		messageColor = color.FgRed
	case op.DryRun:
		messageColor = color.FgYellow
	default:
		messageColor = color.FgCyan
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(messageColor).Sprint(fmt.Sprintf("%-*s", messageWidth, op.Message)),
		fmt.Sprintf("%-*s", detailWidth, op.Detail))
}

// 📝 LogEditOperation logs an edit operation
func (l *Logger) LogEditOperation(ctx context.Context, op EditOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatEditOperation(op))

	l.zlog.Debug().
		Str("file", op.Path).
		Str("message", op.Message).
		Str("detail", op.Detail).
		Bool("success", op.Success).
		Bool("changed", op.Changed).
		Bool("is_created", op.IsCreated).
		Bool("dry_run", op.DryRun).
		Msg("edit operation")
}

// 📝 LogEdit logs an editor result
func (l *Logger) LogEdit(ctx context.Context, path string, r *edit.Result) {
	l.LogEditOperation(ctx, FromResult(path, r))
}

// 📝 StartPlanOperation starts a new plan operation
func (l *Logger) StartPlanOperation(ctx context.Context, op PlanOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[applying %s]\n",
		color.New(color.FgCyan).Sprint(op.Path))

	mode := "write"
	if op.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(fmt.Sprintf("%d edits", op.Entries)),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Debug().
		Str("plan", op.Path).
		Int("entries", op.Entries).
		Bool("dry_run", op.DryRun).
		Msg("starting plan operation")
}

// 📝 EndPlanOperation ends the current plan operation
func (l *Logger) EndPlanOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	changed := 0
	for _, op := range l.operations {
		if op.Changed {
			changed++
		}
	}

	l.zlog.Debug().
		Str("plan", l.currentOp.Path).
		Int("files", len(l.operations)).
		Int("changed", changed).
		Msg("plan operation complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 Operations returns the edit operations logged since the plan started
func (l *Logger) Operations() []EditOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]EditOperation(nil), l.operations...)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("editrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
