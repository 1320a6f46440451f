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

// Package edit applies anchored edits to files on disk.
package edit

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/status"
	"github.com/walteh/editrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned in strict mode when the target is missing and creation is disabled.
	ErrNotFound = errors.Base("file not found")
	// ErrAnchorMissing is returned in strict mode when neither anchor resolves.
	ErrAnchorMissing = text.ErrAnchorMissing
	// ErrInvalidPattern is returned when an anchor is not a valid pattern.
	ErrInvalidPattern = text.ErrInvalidPattern
)

// 📨 Message identifies why an edit ended the way it did
type Message string

const (
	MessageCreated            Message = "created"
	MessageNotFound           Message = "not_found"
	MessageAnchorMissing      Message = "anchor_missing"
	MessageUnchanged          Message = "unchanged"
	MessageReplacedBetween    Message = "replaced_between"
	MessageInsertedAfterStart Message = "inserted_after_start"
	MessageInsertedBeforeEnd  Message = "inserted_before_end"
	MessageAppended           Message = "appended"
)

func messageFor(s text.Strategy) Message {
	switch s {
	case text.StrategyReplaceBetween:
		return MessageReplacedBetween
	case text.StrategyInsertAfterStart:
		return MessageInsertedAfterStart
	case text.StrategyInsertBeforeEnd:
		return MessageInsertedBeforeEnd
	case text.StrategyAppend:
		return MessageAppended
	default:
		return MessageUnchanged
	}
}

// 📝 Request describes one anchored edit of one file
type Request struct {
	Path               string
	Content            string
	StartAnchor        string
	EndAnchor          string
	CreateIfMissing    bool
	Strict             bool
	UsePatternMatching bool
	Backup             bool
	DryRun             bool // compute the result without backup or write
}

// NewRequest returns a request with the default policy: create missing
// files, lenient append, literal anchors, no backup.
func NewRequest(path, content string) Request {
	return Request{
		Path:            path,
		Content:         content,
		CreateIfMissing: true,
	}
}

func (r Request) rule() text.AnchorRule {
	return text.AnchorRule{
		Content:     r.Content,
		StartAnchor: r.StartAnchor,
		EndAnchor:   r.EndAnchor,
		Strict:      r.Strict,
		UsePattern:  r.UsePatternMatching,
	}
}

// 📄 Result is the structured outcome of an edit
type Result struct {
	Success    bool          `json:"success"`
	Message    Message       `json:"message"`
	Content    string        `json:"content"`
	Path       string        `json:"path"`
	Changed    bool          `json:"changed"`
	Strategy   text.Strategy `json:"-"`
	Original   string        `json:"-"`
	DryRun     bool          `json:"dry_run,omitempty"`
	BackupPath string        `json:"backup_path,omitempty"`
	BackupErr  error         `json:"-"`
}

// 💾 Storage is the file system the editor works against
type Storage interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
	BackupFile(ctx context.Context, path string) (string, error)
}

var _ Storage = (*status.Manager)(nil)

// ✏️ Editor applies requests against a Storage
type Editor struct {
	storage Storage
}

// New creates an editor over the given storage
func New(storage Storage) *Editor {
	return &Editor{storage: storage}
}

// NewFileEditor creates an editor over the local file system
func NewFileEditor() *Editor {
	return New(status.New(""))
}

// Edit runs one request to completion. A non-nil Result with Success=false
// is returned for a missing file without creation and for a strict anchor
// miss; in strict mode those also return ErrNotFound or ErrAnchorMissing.
// Invalid patterns and I/O failures return a nil Result and an error.
func (e *Editor) Edit(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("edit not started: %w", err)
	}

	logger := zerolog.Ctx(ctx)

	path, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, errors.Errorf("resolving path %q: %w", req.Path, err)
	}

	rule := req.rule()
	if err := text.ValidateRule(rule); err != nil {
		return nil, errors.Errorf("validating anchors: %w", err)
	}

	exists, err := e.storage.FileExists(ctx, path)
	if err != nil {
		return nil, errors.Errorf("checking %s: %w", path, err)
	}

	if !exists {
		return e.handleMissing(ctx, path, req)
	}

	result := &Result{Path: path, DryRun: req.DryRun}

	if req.Backup && !req.DryRun {
		backupPath, err := e.storage.BackupFile(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("backup failed, continuing with edit")
			result.BackupErr = err
		} else {
			result.BackupPath = backupPath
		}
	}

	raw, err := e.storage.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	original := string(raw)
	result.Original = original

	applied, err := text.Apply(original, rule)
	if err != nil {
		if errors.Is(err, text.ErrAnchorMissing) {
			logger.Debug().Str("path", path).Msg("no anchor resolved in strict mode")
			result.Message = MessageAnchorMissing
			return result, errors.Errorf("editing %s: %w", path, err)
		}
		return nil, errors.Errorf("editing %s: %w", path, err)
	}

	logger.Debug().
		Str("path", path).
		Bool("start_found", applied.Start.Found).
		Int("start", applied.Start.Offset).
		Bool("end_found", applied.End.Found).
		Int("end", applied.End.Offset).
		Str("strategy", applied.Selection.Strategy.String()).
		Msg("resolved anchors")

	result.Success = true
	result.Strategy = applied.Selection.Strategy
	result.Content = applied.ModifiedContent
	result.Changed = applied.WasModified

	if !applied.WasModified {
		result.Message = MessageUnchanged
		return result, nil
	}

	result.Message = messageFor(applied.Selection.Strategy)
	if req.DryRun {
		return result, nil
	}

	if err := e.storage.WriteFileAtomic(ctx, path, []byte(applied.ModifiedContent)); err != nil {
		return nil, errors.Errorf("writing %s: %w", path, err)
	}

	return result, nil
}

func (e *Editor) handleMissing(ctx context.Context, path string, req Request) (*Result, error) {
	if !req.CreateIfMissing {
		result := &Result{Path: path, Message: MessageNotFound, DryRun: req.DryRun}
		if req.Strict {
			return result, errors.Errorf("%w: %s", ErrNotFound, path)
		}
		return result, nil
	}

	result := &Result{
		Success: true,
		Message: MessageCreated,
		Content: req.Content,
		Path:    path,
		Changed: true,
		DryRun:  req.DryRun,
	}
	if req.DryRun {
		return result, nil
	}

	if err := e.storage.CreateDir(ctx, filepath.Dir(path)); err != nil {
		return nil, errors.Errorf("creating parent of %s: %w", path, err)
	}
	if err := e.storage.WriteFileAtomic(ctx, path, []byte(req.Content)); err != nil {
		return nil, errors.Errorf("creating %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(req.Content)).Msg("created file")
	return result, nil
}
