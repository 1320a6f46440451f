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

package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/editrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultConcurrency bounds parallel edits when a plan runs async
const DefaultConcurrency = 4

// 🌐 RemoteSource points at a file in a remote repository
type RemoteSource struct {
	Repo string // Full repo path (e.g. github.com/org/repo)
	Ref  string // Branch, tag or commit
	Path string // Path within repo
}

// 🔧 Defaults holds the edit policy shared by every entry
type Defaults struct {
	CreateIfMissing bool
	Strict          bool
	Pattern         bool
	Backup          bool
}

// DefaultPolicy is the policy used when a plan has no defaults block
func DefaultPolicy() Defaults {
	return Defaults{CreateIfMissing: true}
}

// ✏️ Entry is one edit in a plan, applied to a path or to every glob match
type Entry struct {
	Path        string
	Glob        string
	Exclude     []string
	Content     string
	ContentFile string
	Remote      *RemoteSource
	StartAnchor string
	EndAnchor   string

	// Per-entry overrides of the plan defaults
	CreateIfMissing *bool
	Strict          *bool
	Pattern         *bool
	Backup          *bool
}

// Policy merges the entry overrides over the plan defaults
func (e Entry) Policy(d Defaults) Defaults {
	if e.CreateIfMissing != nil {
		d.CreateIfMissing = *e.CreateIfMissing
	}
	if e.Strict != nil {
		d.Strict = *e.Strict
	}
	if e.Pattern != nil {
		d.Pattern = *e.Pattern
	}
	if e.Backup != nil {
		d.Backup = *e.Backup
	}
	return d
}

// Name returns a short label for the entry
func (e Entry) Name() string {
	if e.Glob != "" {
		return e.Glob
	}
	return e.Path
}

// 📚 Plan is a set of anchored edits loaded from an editrc file
type Plan struct {
	Defaults    Defaults
	Edits       []Entry
	Async       bool
	Concurrency int

	// BaseDir is the directory relative paths resolve against
	BaseDir string
	// Location is the file the plan was loaded from
	Location string
}

// 🔍 Validate checks if the plan is valid and fills in defaults
func (p *Plan) Validate() error {
	if len(p.Edits) == 0 {
		return errors.Errorf("at least one edit is required")
	}

	for i := range p.Edits {
		if err := p.Edits[i].validate(p.Defaults); err != nil {
			return errors.Errorf("edit %d: %w", i, err)
		}
	}

	if p.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative")
	}
	if p.Concurrency == 0 {
		p.Concurrency = DefaultConcurrency
	}
	if p.BaseDir != "" {
		p.BaseDir = filepath.Clean(p.BaseDir)
	}

	return nil
}

func (e *Entry) validate(d Defaults) error {
	switch {
	case e.Path == "" && e.Glob == "":
		return errors.Errorf("path or glob is required")
	case e.Path != "" && e.Glob != "":
		return errors.Errorf("path and glob are mutually exclusive")
	case len(e.Exclude) > 0 && e.Glob == "":
		return errors.Errorf("exclude requires glob")
	}

	if e.Glob != "" {
		if strings.HasPrefix(e.Glob, "/") || !doublestar.ValidatePattern(e.Glob) {
			return errors.Errorf("invalid glob %q", e.Glob)
		}
		for _, ex := range e.Exclude {
			if !doublestar.ValidatePattern(ex) {
				return errors.Errorf("invalid exclude pattern %q", ex)
			}
		}
	}

	sources := 0
	if e.Content != "" {
		sources++
	}
	if e.ContentFile != "" {
		sources++
	}
	if e.Remote != nil {
		sources++
		if e.Remote.Repo == "" {
			return errors.Errorf("remote.repo is required")
		}
		if e.Remote.Path == "" {
			return errors.Errorf("remote.path is required")
		}
		if e.Remote.Ref == "" {
			e.Remote.Ref = "main"
		}
	}
	if sources > 1 {
		return errors.Errorf("content, content_file and remote are mutually exclusive")
	}

	if e.Path != "" {
		e.Path = filepath.Clean(e.Path)
	}

	policy := e.Policy(d)
	if err := text.ValidateRule(text.AnchorRule{
		StartAnchor: e.StartAnchor,
		EndAnchor:   e.EndAnchor,
		UsePattern:  policy.Pattern,
	}); err != nil {
		return err
	}

	return nil
}

// 📝 String returns a string representation of the plan
func (p *Plan) String() string {
	return fmt.Sprintf("%s (%d edits)", p.Location, len(p.Edits))
}
