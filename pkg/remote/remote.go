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

// Package remote fetches edit content from hosted repositories.
package remote

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/walteh/editrc/pkg/config/model"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownHost is returned when no source is registered for a repo's host
var ErrUnknownHost = errors.Base("no remote source for host")

// 🔌 Source fetches a single file from one hosting provider
type Source interface {
	// Name returns the host the source serves (e.g. "github.com")
	Name() string
	// Fetch returns the raw file content at the given ref
	Fetch(ctx context.Context, src model.RemoteSource) ([]byte, error)
}

// 📥 Fetcher resolves remote content for a plan entry
type Fetcher interface {
	Fetch(ctx context.Context, src model.RemoteSource) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

// 📝 Register makes a source available for its host
func Register(s Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Name()] = s
}

// ParseRepo splits "host/owner/name" into its parts. A scheme prefix and a
// trailing ".git" are ignored.
func ParseRepo(repo string) (host, owner, name string, err error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(repo, "https://"), "http://")
	trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, "/"), ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", errors.Errorf("invalid repository %q, want host/owner/name", repo)
	}
	return parts[0], parts[1], parts[2], nil
}

// 🎯 Lookup returns the source registered for the repo's host
func Lookup(repo string) (Source, error) {
	host, _, _, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[host]
	if !ok {
		options := make([]string, 0, len(registry))
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("%w %s, options: %s", ErrUnknownHost, host, strings.Join(options, ", "))
	}
	return s, nil
}

// Registry is a Fetcher that dispatches to registered sources
type Registry struct{}

// Fetch looks up the source for src.Repo and fetches from it
func (Registry) Fetch(ctx context.Context, src model.RemoteSource) ([]byte, error) {
	s, err := Lookup(src.Repo)
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, src)
}

// 🗄️ Cache memoizes fetches so glob entries hit the network once per file
type Cache struct {
	next Fetcher

	mu      sync.Mutex
	entries map[model.RemoteSource]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	data []byte
	err  error
}

// NewCache wraps a fetcher with a per-run cache
func NewCache(next Fetcher) *Cache {
	return &Cache{next: next, entries: map[model.RemoteSource]*cacheEntry{}}
}

// Fetch returns the cached content, fetching it on first use
func (c *Cache) Fetch(ctx context.Context, src model.RemoteSource) ([]byte, error) {
	c.mu.Lock()
	entry, ok := c.entries[src]
	if !ok {
		entry = &cacheEntry{}
		c.entries[src] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.data, entry.err = c.next.Fetch(ctx, src)
	})
	return entry.data, entry.err
}
