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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/editrc/cmd/editrc/commands"
	"github.com/walteh/editrc/cmd/editrc/opts"
	"github.com/walteh/editrc/pkg/config"
	"github.com/walteh/editrc/pkg/log"
)

// newRootCmd wires every command under the editrc root
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "editrc",
		Short: "Insert and replace content between anchors in files",
		Long: `editrc updates managed regions of files in place.
A region is marked by a start anchor, an end anchor, or both; content is
replaced between them, inserted next to whichever one exists, or appended
when neither is found.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), cmd.OutOrStdout(), o.Debug))
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewEditCmd(o),
		commands.NewApplyCmd(o),
		commands.NewWatchCmd(o),
		commands.NewRestoreCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.PlanFile, "plan", "p", config.DefaultPlanFile, "plan file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and stores both loggers in ctx
func setupLogging(ctx context.Context, console io.Writer, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &zlog

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(console, level))
}
