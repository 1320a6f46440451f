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
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/editrc/pkg/config/model"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclPolicy struct {
	CreateIfMissing *bool `hcl:"create_if_missing,optional"`
	Strict          *bool `hcl:"strict,optional"`
	Pattern         *bool `hcl:"pattern,optional"`
	Backup          *bool `hcl:"backup,optional"`
}

type hclRemote struct {
	Repo string `hcl:"repo"`
	Ref  string `hcl:"ref,optional"`
	Path string `hcl:"path"`
}

type hclEntry struct {
	Path        string     `hcl:"path,optional"`
	Glob        string     `hcl:"glob,optional"`
	Exclude     []string   `hcl:"exclude,optional"`
	Content     string     `hcl:"content,optional"`
	ContentFile string     `hcl:"content_file,optional"`
	StartAnchor string     `hcl:"start_anchor,optional"`
	EndAnchor   string     `hcl:"end_anchor,optional"`
	Remote      *hclRemote `hcl:"remote,block"`

	CreateIfMissing *bool `hcl:"create_if_missing,optional"`
	Strict          *bool `hcl:"strict,optional"`
	Pattern         *bool `hcl:"pattern,optional"`
	Backup          *bool `hcl:"backup,optional"`
}

type hclPlan struct {
	Async       bool       `hcl:"async,optional"`
	Concurrency int        `hcl:"concurrency,optional"`
	Defaults    *hclPolicy `hcl:"defaults,block"`
	Edits       []hclEntry `hcl:"edit,block"`
}

// 📝 Parse parses the plan from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*model.Plan, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "plan.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var doc hclPlan
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &doc)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	plan := &model.Plan{
		Defaults:    model.DefaultPolicy(),
		Async:       doc.Async,
		Concurrency: doc.Concurrency,
	}
	if doc.Defaults != nil {
		plan.Defaults = model.Entry{
			CreateIfMissing: doc.Defaults.CreateIfMissing,
			Strict:          doc.Defaults.Strict,
			Pattern:         doc.Defaults.Pattern,
			Backup:          doc.Defaults.Backup,
		}.Policy(plan.Defaults)
	}

	for _, e := range doc.Edits {
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

	return plan, nil
}
