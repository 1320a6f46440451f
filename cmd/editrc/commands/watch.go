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
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/editrc/cmd/editrc/opts"
	"github.com/walteh/editrc/pkg/log"
	"github.com/walteh/editrc/pkg/watch"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(o *opts.RootOpts) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-apply the plan whenever it or its content files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := log.FromContext(ctx)
			out := cmd.OutOrStdout()
			logger.Header("watch " + o.PlanFile)

			w := watch.New(debounce, func(ctx context.Context, changed []string) ([]string, error) {
				run, err := runPlan(ctx, out, o.PlanFile, false)
				if run == nil {
					return nil, err
				}
				if err != nil {
					logger.Warningf("%d edits failed: %v", len(run.report.Failed()), err)
				}
				logger.Infof("%d edits changed files, watching %d inputs", run.changed, len(run.inputs()))
				return run.inputs(), nil
			})

			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long after a change before re-applying")

	return cmd
}
