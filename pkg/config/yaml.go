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
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/walteh/editrc/pkg/config/model"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// filePlan is the document shape shared by the YAML and JSON formats
type filePlan struct {
	Async       bool        `yaml:"async" json:"async"`
	Concurrency int         `yaml:"concurrency" json:"concurrency"`
	Defaults    *filePolicy `yaml:"defaults" json:"defaults"`
	Edits       []fileEntry `yaml:"edits" json:"edits"`
}

type filePolicy struct {
	CreateIfMissing *bool `yaml:"create_if_missing" json:"create_if_missing"`
	Strict          *bool `yaml:"strict" json:"strict"`
	Pattern         *bool `yaml:"pattern" json:"pattern"`
	Backup          *bool `yaml:"backup" json:"backup"`
}

type fileRemote struct {
	Repo string `yaml:"repo" json:"repo"`
	Ref  string `yaml:"ref" json:"ref"`
	Path string `yaml:"path" json:"path"`
}

type fileEntry struct {
	Path        string      `yaml:"path" json:"path"`
	Glob        string      `yaml:"glob" json:"glob"`
	Exclude     []string    `yaml:"exclude" json:"exclude"`
	Content     string      `yaml:"content" json:"content"`
	ContentFile string      `yaml:"content_file" json:"content_file"`
	Remote      *fileRemote `yaml:"remote" json:"remote"`
	StartAnchor string      `yaml:"start_anchor" json:"start_anchor"`
	EndAnchor   string      `yaml:"end_anchor" json:"end_anchor"`

	filePolicy `yaml:",inline"`
}

func (f *filePlan) toModel() *model.Plan {
	plan := &model.Plan{
		Defaults:    model.DefaultPolicy(),
		Async:       f.Async,
		Concurrency: f.Concurrency,
	}
	if f.Defaults != nil {
		plan.Defaults = model.Entry{
			CreateIfMissing: f.Defaults.CreateIfMissing,
			Strict:          f.Defaults.Strict,
			Pattern:         f.Defaults.Pattern,
			Backup:          f.Defaults.Backup,
		}.Policy(plan.Defaults)
	}

	for _, e := range f.Edits {
		entry := model.Entry{
			Path:            e.Path,
			Glob:            filepath.ToSlash(e.Glob),
			Exclude:         e.Exclude,
			Content:         e.Content,
			ContentFile:     e.ContentFile,
			StartAnchor:     e.StartAnchor,
			EndAnchor:       e.EndAnchor,
			CreateIfMissing: e.CreateIfMissing,
			Strict:          e.Strict,
			Pattern:         e.Pattern,
			Backup:          e.Backup,
		}
		if e.Remote != nil {
			entry.Remote = &model.RemoteSource{Repo: e.Remote.Repo, Ref: e.Remote.Ref, Path: e.Remote.Path}
		}
		plan.Edits = append(plan.Edits, entry)
	}

	return plan
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// 📝 Parse parses the plan from YAML bytes
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*model.Plan, error) {
	var doc filePlan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return doc.toModel(), nil
}
