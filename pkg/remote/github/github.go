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

package github

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/editrc/pkg/config/model"
	"github.com/walteh/editrc/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// Host is the repo host this source serves
const Host = "github.com"

func init() {
	remote.Register(New())
}

// ContentsClient is the part of the GitHub API the source needs
type ContentsClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// 🎯 Source fetches files through the GitHub contents API
type Source struct {
	client ContentsClient
}

var _ remote.Source = (*Source)(nil)

// 🏭 New creates a source using GITHUB_TOKEN when it is set
func New() *Source {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &Source{client: client.Repositories}
}

// NewWithBaseURL creates a source against a GitHub API at baseURL
func NewWithBaseURL(baseURL string) (*Source, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Errorf("parsing base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	client.BaseURL = u
	return &Source{client: client.Repositories}, nil
}

// NewWithClient creates a source over an existing contents client
func NewWithClient(client ContentsClient) *Source {
	return &Source{client: client}
}

// Name returns the host this source serves
func (s *Source) Name() string {
	return Host
}

// 📄 Fetch returns the decoded file at src.Path on src.Ref
func (s *Source) Fetch(ctx context.Context, src model.RemoteSource) ([]byte, error) {
	_, owner, name, err := remote.ParseRepo(src.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("owner", owner).
		Str("repo", name).
		Str("ref", src.Ref).
		Str("path", src.Path).
		Msg("fetching remote content")

	file, dir, _, err := s.client.GetContents(ctx, owner, name, strings.TrimPrefix(src.Path, "/"), &github.RepositoryContentGetOptions{
		Ref: src.Ref,
	})
	if err != nil {
		return nil, errors.Errorf("getting %s from %s@%s: %w", src.Path, src.Repo, src.Ref, err)
	}
	if file == nil {
		return nil, errors.Errorf("%s in %s@%s is a directory with %d entries", src.Path, src.Repo, src.Ref, len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	return []byte(content), nil
}
