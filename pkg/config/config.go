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

package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/config/model"
	"gitlab.com/tozd/go/errors"
)

// DefaultPlanFile is the plan looked up when none is given
const DefaultPlanFile = ".editrc.yaml"

// 🔌 Parser is the interface for plan parsers
type Parser interface {
	// 📝 Parse parses the plan from bytes
	Parse(ctx context.Context, data []byte) (*model.Plan, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load loads and validates a plan from a file.
// A bare ".editrc" file is tried as YAML first, then as HCL.
func Load(ctx context.Context, path string) (*model.Plan, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading plan")

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving plan path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Errorf("reading plan file: %w", err)
	}

	var plan *model.Plan
	if filepath.Base(absPath) == ".editrc" {
		plan, err = (&YAMLParser{}).Parse(ctx, data)
		if err != nil {
			logger.Debug().Err(err).Msg("plan is not YAML, trying HCL")
			plan, err = (&HCLParser{}).Parse(ctx, data)
			if err != nil {
				return nil, errors.Errorf("failed to parse .editrc as YAML or HCL: %w", err)
			}
		}
	} else {
		p := GetParser(absPath)
		if p == nil {
			return nil, errors.Errorf("no parser found for file: %s", path)
		}
		plan, err = p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing plan: %w", err)
		}
	}

	plan.Location = absPath
	plan.BaseDir = filepath.Dir(absPath)

	if err := plan.Validate(); err != nil {
		return nil, errors.Errorf("validating plan: %w", err)
	}

	return plan, nil
}

// ResolvePath makes a plan-relative path absolute
func ResolvePath(plan *model.Plan, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(plan.BaseDir, path)
}

// 🔍 Targets returns the absolute files an entry applies to. A path entry
// always yields its path, existing or not; a glob entry yields the regular
// files under the plan's base directory that match it and no exclude.
func Targets(ctx context.Context, plan *model.Plan, entry model.Entry) ([]string, error) {
	if entry.Glob == "" {
		return []string{ResolvePath(plan, entry.Path)}, nil
	}

	fsys := os.DirFS(plan.BaseDir)
	matches, err := doublestar.Glob(fsys, entry.Glob)
	if err != nil {
		return nil, errors.Errorf("expanding glob %q: %w", entry.Glob, err)
	}

	targets := make([]string, 0, len(matches))
	for _, match := range matches {
		excluded, err := isExcluded(match, entry.Exclude)
		if err != nil {
			return nil, err
		}
		if excluded {
			zerolog.Ctx(ctx).Debug().Str("file", match).Msg("file excluded by pattern")
			continue
		}

		info, err := fs.Stat(fsys, match)
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", match, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		targets = append(targets, filepath.Join(plan.BaseDir, filepath.FromSlash(match)))
	}

	sort.Strings(targets)
	return targets, nil
}

func isExcluded(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, errors.Errorf("matching exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
