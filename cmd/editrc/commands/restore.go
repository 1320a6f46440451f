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
	"github.com/spf13/cobra"
	"github.com/walteh/editrc/cmd/editrc/opts"
	"github.com/walteh/editrc/pkg/log"
	"github.com/walteh/editrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates the restore command
func NewRestoreCmd(_ *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <path>...",
		Short: "Restore files from their " + status.BackupSuffix + " copies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)
			mgr := status.New("")

			var errs []error
			for _, path := range args {
				if err := mgr.RestoreFile(ctx, path); err != nil {
					logger.Errorf("%s: %v", path, err)
					errs = append(errs, errors.Errorf("restoring %s: %w", path, err))
					continue
				}
				logger.Successf("restored %s", path)
			}
			if len(errs) > 0 {
				return errors.Join(errs...)
			}
			return nil
		},
	}

	return cmd
}
