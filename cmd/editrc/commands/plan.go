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

package commands

import (
	"context"
	"io"

	"github.com/walteh/editrc/pkg/config"
	"github.com/walteh/editrc/pkg/config/model"
	"github.com/walteh/editrc/pkg/log"
	"github.com/walteh/editrc/pkg/operation"
	"github.com/walteh/editrc/pkg/remote"
	"github.com/walteh/editrc/pkg/status"
	"gitlab.com/tozd/go/errors"

	_ "github.com/walteh/editrc/pkg/remote/github"
)

// planRun is the outcome of loading and running a plan once
type planRun struct {
	plan    *model.Plan
	report  *operation.Report
	files   []status.FileInfo // one rolled up entry per edited file
	changed int               // edits that changed or would change a file
}

// inputs returns the files a plan run depends on: the plan and its content files
func (r *planRun) inputs() []string {
	paths := []string{r.plan.Location}
	for _, e := range r.plan.Edits {
		if e.ContentFile != "" {
			paths = append(paths, config.ResolvePath(r.plan, e.ContentFile))
		}
	}
	return paths
}

// runPlan loads the plan at path, runs it, and prints every outcome. A
// non-nil planRun is returned whenever the plan loaded, even if edits failed.
func runPlan(ctx context.Context, out io.Writer, path string, dryRun bool) (*planRun, error) {
	logger := log.FromContext(ctx)

	plan, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading plan: %w", err)
	}

	mgr := status.New(plan.BaseDir).WithFormatter(status.NewRelativeFileFormatter(plan.BaseDir))
	runner, err := operation.NewRunner(operation.Options{
		Manager: mgr,
		Fetcher: remote.Registry{},
		DryRun:  dryRun,
	})
	if err != nil {
		return nil, errors.Errorf("creating runner: %w", err)
	}

	logger.StartPlanOperation(ctx, log.PlanOperation{
		Path:    status.RelPath(plan.BaseDir, plan.Location),
		Entries: len(plan.Edits),
		DryRun:  dryRun,
	})

	report, runErr := runner.Run(ctx, plan)
	if report != nil {
		for _, o := range report.Outcomes {
			name := o.Name
			if o.Request.Path != "" {
				name = status.RelPath(plan.BaseDir, o.Request.Path)
			}
			if o.Result == nil {
				logger.LogEditOperation(ctx, log.EditOperation{Path: name, Message: "failed", Detail: "error"})
				continue
			}
			logger.LogEdit(ctx, name, o.Result)
			if dryRun && o.Result.Success {
				writeDiff(out, name, o.Result.Original, o.Result.Content)
			}
		}
	}

	run := &planRun{plan: plan, report: report}
	for _, op := range logger.Operations() {
		if op.Changed {
			run.changed++
		}
	}
	logger.EndPlanOperation(ctx)

	files, err := mgr.ListFiles(ctx)
	if err != nil {
		return run, errors.Join(runErr, errors.Errorf("listing tracked files: %w", err))
	}
	run.files = files

	return run, runErr
}
