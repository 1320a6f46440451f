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

	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/config"
	"github.com/walteh/editrc/pkg/config/model"
	"github.com/walteh/editrc/pkg/edit"
	"github.com/walteh/editrc/pkg/remote"
	"github.com/walteh/editrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one edit request produced from a plan entry
type Operation struct {
	// Entry is the index of the plan entry that produced the operation
	Entry   int
	Name    string
	Request edit.Request
}

// 📄 Outcome is what happened to one operation
type Outcome struct {
	Operation
	Result *edit.Result
	Err    error
}

// Status maps the outcome onto a tracked file status
func (o Outcome) Status() status.FileStatus {
	switch {
	case o.Err != nil:
		return status.StatusFailed
	case o.Result == nil:
		return status.StatusUnknown
	case o.Result.Message == edit.MessageNotFound:
		return status.StatusSkipped
	case o.Result.Message == edit.MessageCreated:
		return status.StatusCreated
	case o.Result.Changed:
		return status.StatusModified
	default:
		return status.StatusUnchanged
	}
}

// 🔧 Options contains configuration for the runner
type Options struct {
	// Manager provides file access and status tracking
	Manager *status.Manager
	// Fetcher resolves remote content sources
	Fetcher remote.Fetcher
	// DryRun computes every result without writing
	DryRun bool
}

// Build expands every plan entry into operations, in plan order. Entries
// whose targets or content cannot be resolved come back as failed outcomes.
func (r *Runner) Build(ctx context.Context, plan *model.Plan) ([]Operation, []Outcome) {
	logger := zerolog.Ctx(ctx)

	var ops []Operation
	var failed []Outcome

	for i, entry := range plan.Edits {
		targets, err := config.Targets(ctx, plan, entry)
		if err != nil {
			failed = append(failed, Outcome{
				Operation: Operation{Entry: i, Name: entry.Name()},
				Err:       errors.Errorf("resolving targets: %w", err),
			})
			continue
		}
		if len(targets) == 0 {
			logger.Info().Str("glob", entry.Glob).Msg("glob matched no files")
			continue
		}

		content, err := r.content(ctx, plan, entry)
		if err != nil {
			failed = append(failed, Outcome{
				Operation: Operation{Entry: i, Name: entry.Name()},
				Err:       errors.Errorf("resolving content: %w", err),
			})
			continue
		}

		policy := entry.Policy(plan.Defaults)
		for _, target := range targets {
			ops = append(ops, Operation{
				Entry: i,
				Name:  entry.Name(),
				Request: edit.Request{
					Path:               target,
					Content:            content,
					StartAnchor:        entry.StartAnchor,
					EndAnchor:          entry.EndAnchor,
					CreateIfMissing:    policy.CreateIfMissing,
					Strict:             policy.Strict,
					UsePatternMatching: policy.Pattern,
					Backup:             policy.Backup,
					DryRun:             r.dryRun,
				},
			})
		}
	}

	return ops, failed
}

// content returns the text an entry inserts
func (r *Runner) content(ctx context.Context, plan *model.Plan, entry model.Entry) (string, error) {
	switch {
	case entry.ContentFile != "":
		data, err := r.manager.ReadFile(ctx, config.ResolvePath(plan, entry.ContentFile))
		if err != nil {
			return "", errors.Errorf("reading content file: %w", err)
		}
		return string(data), nil
	case entry.Remote != nil:
		if r.fetcher == nil {
			return "", errors.Errorf("no fetcher configured for remote %s", entry.Remote.Repo)
		}
		data, err := r.fetcher.Fetch(ctx, *entry.Remote)
		if err != nil {
			return "", errors.Errorf("fetching remote content: %w", err)
		}
		return string(data), nil
	default:
		return entry.Content, nil
	}
}
