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
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/config/model"
	"github.com/walteh/editrc/pkg/edit"
	"github.com/walteh/editrc/pkg/remote"
	"github.com/walteh/editrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📊 Report collects the outcomes of a plan run, in plan order
type Report struct {
	Outcomes []Outcome
}

// Counts tallies outcomes by status
func (r *Report) Counts() map[status.FileStatus]int {
	counts := map[status.FileStatus]int{}
	for _, o := range r.Outcomes {
		counts[o.Status()]++
	}
	return counts
}

// Failed returns the outcomes that carry an error
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// 🏃 Runner executes plans
type Runner struct {
	manager *status.Manager
	editor  *edit.Editor
	fetcher remote.Fetcher
	dryRun  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) (*Runner, error) {
	if opts.Manager == nil {
		return nil, errors.Errorf("status manager is required")
	}
	fetcher := opts.Fetcher
	if fetcher != nil {
		fetcher = remote.NewCache(fetcher)
	}
	return &Runner{
		manager: opts.Manager,
		editor:  edit.New(opts.Manager),
		fetcher: fetcher,
		dryRun:  opts.DryRun,
	}, nil
}

// 🏃 Run executes every edit of the plan. Edits of the same file run in plan
// order; with plan.Async distinct files run concurrently, at most
// plan.Concurrency at a time. One failed edit does not stop the rest; the
// returned error joins every failure.
func (r *Runner) Run(ctx context.Context, plan *model.Plan) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	ops, failed := r.Build(ctx, plan)
	outcomes := make([]Outcome, len(ops))

	chains := chainByPath(ops)
	logger.Debug().
		Int("operations", len(ops)).
		Int("files", len(chains)).
		Bool("async", plan.Async).
		Bool("dry_run", r.dryRun).
		Msg("running plan")

	editor := r.editor
	if r.dryRun {
		editor = edit.New(newOverlay(r.manager))
	}

	r.manager.StartOperation(ctx, len(ops))
	var processed atomic.Int64

	runChain := func(chain []int) {
		for _, idx := range chain {
			outcomes[idx] = r.execute(ctx, editor, ops[idx])
			r.manager.UpdateProgress(ctx, int(processed.Add(1)))
		}
	}

	if plan.Async {
		var g errgroup.Group
		limit := plan.Concurrency
		if limit <= 0 {
			limit = model.DefaultConcurrency
		}
		g.SetLimit(limit)
		for _, chain := range chains {
			g.Go(func() error {
				runChain(chain)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, chain := range chains {
			runChain(chain)
		}
	}

	r.manager.FinishOperation(ctx)

	all := append(failed, outcomes...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Entry < all[j].Entry })
	report := &Report{Outcomes: all}

	var errs []error
	for _, o := range report.Failed() {
		target := o.Name
		if o.Request.Path != "" {
			target = o.Request.Path
		}
		errs = append(errs, errors.Errorf("edit %d (%s): %w", o.Entry, target, o.Err))
	}
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	return report, nil
}

// execute runs one operation. A dry-run editor writes to an overlay, so the
// request is run for real against it and the result is marked as a dry run.
func (r *Runner) execute(ctx context.Context, editor *edit.Editor, op Operation) Outcome {
	out := Outcome{Operation: op}

	req := op.Request
	if r.dryRun {
		req.DryRun = false
		req.Backup = false
	}
	out.Result, out.Err = editor.Edit(ctx, req)
	if out.Result != nil && r.dryRun {
		out.Result.DryRun = true
	}

	info := status.FileInfo{
		Path:   op.Request.Path,
		Status: out.Status(),
		Error:  out.Err,
	}
	if out.Result != nil {
		info.Strategy = string(out.Result.Message)
		info.Size = int64(len(out.Result.Content))
		if out.Result.Success {
			info.Checksum = status.Checksum([]byte(out.Result.Content))
		}
	}
	if prev, err := r.manager.GetFileInfo(ctx, op.Request.Path); err == nil {
		info = rollup(prev, info)
	}
	r.manager.TrackFile(ctx, op.Request.Path, info)

	return out
}

// statusRank orders statuses by how much they say about a file's run
var statusRank = map[status.FileStatus]int{
	status.StatusUnknown:   0,
	status.StatusSkipped:   1,
	status.StatusUnchanged: 2,
	status.StatusModified:  3,
	status.StatusCreated:   4,
	status.StatusFailed:    5,
}

// rollup folds the outcome of a later edit of the same file into what is
// already tracked for it. A file created or modified earlier in the run
// keeps that status when a later edit leaves it unchanged. Size and checksum
// always follow the latest edit.
func rollup(prev, next status.FileInfo) status.FileInfo {
	if statusRank[prev.Status] > statusRank[next.Status] {
		next.Status = prev.Status
		if next.Strategy == "" || next.Strategy == string(edit.MessageUnchanged) {
			next.Strategy = prev.Strategy
		}
	}
	if next.Error == nil {
		next.Error = prev.Error
	}
	return next
}

// chainByPath groups operation indexes by target path. Chains keep plan
// order internally and are ordered by their first operation.
func chainByPath(ops []Operation) [][]int {
	byPath := map[string]int{}
	var chains [][]int
	for i, op := range ops {
		c, ok := byPath[op.Request.Path]
		if !ok {
			c = len(chains)
			byPath[op.Request.Path] = c
			chains = append(chains, nil)
		}
		chains[c] = append(chains[c], i)
	}
	return chains
}
