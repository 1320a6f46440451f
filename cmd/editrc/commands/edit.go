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
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/editrc/cmd/editrc/opts"
	"github.com/walteh/editrc/pkg/edit"
	"github.com/walteh/editrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewEditCmd creates the edit command
func NewEditCmd(_ *opts.RootOpts) *cobra.Command {
	req := edit.NewRequest("", "")
	var (
		contentFile string
		noCreate    bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "edit <path>",
		Short: "Apply one anchored edit to a file",
		Long: `Edit places content in a file relative to its anchors:
1. Between the start and end anchors when both are found
2. After the start anchor when only it is found
3. Before the end anchor when only it is found
4. At the end of the file otherwise, unless --strict is set

A missing file is created with the content unless --no-create is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req.Path = args[0]
			req.CreateIfMissing = !noCreate

			if contentFile != "" {
				content, err := readContent(cmd.InOrStdin(), contentFile)
				if err != nil {
					return err
				}
				req.Content = content
			}

			result, editErr := edit.NewFileEditor().Edit(ctx, req)
			if result == nil {
				return editErr
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return errors.Errorf("encoding result: %w", err)
				}
				return editErr
			}

			log.FromContext(ctx).LogEdit(ctx, args[0], result)
			if req.DryRun && result.Success {
				writeDiff(out, args[0], result.Original, result.Content)
			}
			return editErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Content, "content", "", "content to insert")
	f.StringVar(&contentFile, "content-file", "", "read content from a file, or - for stdin")
	f.StringVarP(&req.StartAnchor, "start", "s", "", "start anchor")
	f.StringVarP(&req.EndAnchor, "end", "e", "", "end anchor")
	f.BoolVar(&noCreate, "no-create", false, "do not create a missing file")
	f.BoolVar(&req.Strict, "strict", false, "fail instead of appending when no anchor is found")
	f.BoolVar(&req.UsePatternMatching, "pattern", false, "treat anchors as regular expressions")
	f.BoolVar(&req.Backup, "backup", false, "copy the file to <path>.backup before editing")
	f.BoolVar(&req.DryRun, "dry-run", false, "show the change without writing it")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func readContent(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Errorf("reading content from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading content file: %w", err)
	}
	return string(data), nil
}
