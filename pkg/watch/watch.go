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

// Package watch re-runs a plan when its input files change.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// ApplyFunc runs the plan and returns the files whose changes should
// trigger the next run. changed is empty on the first call.
type ApplyFunc func(ctx context.Context, changed []string) ([]string, error)

// 👀 Watcher calls an ApplyFunc whenever one of its files changes
type Watcher struct {
	debounce time.Duration
	apply    ApplyFunc

	fs    *fsnotify.Watcher
	files map[string]bool
	dirs  map[string]bool
}

// New creates a watcher. A debounce of zero uses DefaultDebounce.
func New(debounce time.Duration, apply ApplyFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		debounce: debounce,
		apply:    apply,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}
}

// 🏃 Run applies once, then re-applies after each debounced change until ctx
// is done. An error from the first apply is returned; later errors are
// logged and the previous file set stays watched.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating file watcher: %w", err)
	}
	w.fs = fsw
	defer fsw.Close()

	paths, err := w.apply(ctx, nil)
	if err != nil {
		return errors.Errorf("initial apply: %w", err)
	}
	if err := w.track(ctx, paths); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("watch stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !w.files[name] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Trace().Str("path", name).Str("op", event.Op.String()).Msg("file event")
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("file watcher error")

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}

			logger.Debug().Strs("changed", changed).Msg("re-applying")
			paths, err := w.apply(ctx, changed)
			if err != nil {
				logger.Warn().Err(err).Msg("apply failed, keeping previous watch set")
				continue
			}
			if err := w.track(ctx, paths); err != nil {
				logger.Warn().Err(err).Msg("updating watch set")
			}
		}
	}
}

// track replaces the watched file set. Parent directories are watched so
// files replaced by rename keep triggering.
func (w *Watcher) track(ctx context.Context, paths []string) error {
	files := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
		zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("watching directory")
	}
	w.files = files
	return nil
}
