// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/teradata-labs/heddle/pkg/mcp/protocol"
)

// overlayDebounce is how long file events must settle before a reload runs.
// Editors fire several events per save.
const overlayDebounce = 500 * time.Millisecond

// overlayFile is the YAML shape of one overlay prompt file.
//
//	name: weekly-report
//	description: Draft the weekly sales report
//	arguments:
//	  - name: region
//	    description: Region to report on
//	    required: true
//	template: |
//	  Write a weekly report for {{.region}}...
type overlayFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Arguments   []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Required    bool   `yaml:"required"`
	} `yaml:"arguments"`
	Template string `yaml:"template"`
}

// overlayPrompt is one loaded overlay template.
type overlayPrompt struct {
	def      protocol.Prompt
	template string
}

func (o *overlayPrompt) render(args map[string]string) string {
	return interpolate(o.template, args)
}

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// interpolate substitutes {{.name}} placeholders with argument values.
// Absent arguments substitute the empty string, matching the best-effort
// fill policy of the built-in templates.
func interpolate(template string, args map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "{{."), "}}")
		return args[name]
	})
}

// LoadOverlay reads every .yaml/.yml file in dir into the overlay prompt
// set, replacing the current set atomically. A file that fails to parse or
// validate rejects the whole load and keeps the previous set, so a broken
// edit never degrades a running server.
func (r *PromptRegistry) LoadOverlay(dir string) error {
	loaded, err := loadOverlayDir(dir, r.byName)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.overlay = loaded
	r.mu.Unlock()

	r.logger.Info("prompt overlay loaded", zap.String("dir", dir), zap.Int("count", len(loaded)))
	return nil
}

func loadOverlayDir(dir string, builtins map[string]*builtinPrompt) (map[string]*overlayPrompt, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading prompt overlay dir: %w", err)
	}

	loaded := make(map[string]*overlayPrompt)
	for _, entry := range entries {
		if entry.IsDir() || !isOverlayFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path) // #nosec G304 -- overlay dir comes from operator config
		if err != nil {
			return nil, fmt.Errorf("reading overlay prompt %s: %w", path, err)
		}

		var file overlayFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing overlay prompt %s: %w", path, err)
		}
		if file.Name == "" {
			return nil, fmt.Errorf("overlay prompt %s: name is required", path)
		}
		if file.Template == "" {
			return nil, fmt.Errorf("overlay prompt %s: template is required", path)
		}
		if _, ok := builtins[file.Name]; ok {
			return nil, fmt.Errorf("overlay prompt %s: name %q collides with a built-in prompt", path, file.Name)
		}
		if _, ok := loaded[file.Name]; ok {
			return nil, fmt.Errorf("overlay prompt %s: duplicate name %q", path, file.Name)
		}

		def := protocol.Prompt{Name: file.Name, Description: file.Description}
		for _, a := range file.Arguments {
			def.Arguments = append(def.Arguments, protocol.PromptArgument{
				Name:        a.Name,
				Description: a.Description,
				Required:    a.Required,
			})
		}
		loaded[file.Name] = &overlayPrompt{def: def, template: file.Template}
	}
	return loaded, nil
}

func isOverlayFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.Contains(name, ".tmp") || strings.HasSuffix(name, "~") {
		return false
	}
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// OverlayWatcher hot-reloads the overlay prompt set when files in the
// overlay directory change. Reloads are debounced and validate-before-swap:
// the running set is replaced only by a fully valid load.
type OverlayWatcher struct {
	registry *PromptRegistry
	dir      string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	onReload func()

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewOverlayWatcher creates a watcher over the registry's overlay
// directory. onReload, if non-nil, runs after every successful swap
// (typically to emit a prompts list_changed notification).
func NewOverlayWatcher(registry *PromptRegistry, dir string, onReload func(), logger *zap.Logger) (*OverlayWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating overlay watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching overlay dir %s: %w", dir, err)
	}
	return &OverlayWatcher{
		registry: registry,
		dir:      dir,
		watcher:  watcher,
		logger:   logger,
		onReload: onReload,
	}, nil
}

// Start runs the watch loop until the context is cancelled.
func (w *OverlayWatcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
	w.logger.Info("prompt overlay watcher started", zap.String("dir", w.dir))
}

// Close stops the underlying file watcher.
func (w *OverlayWatcher) Close() error {
	return w.watcher.Close()
}

func (w *OverlayWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isOverlayFile(filepath.Base(event.Name)) {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("overlay watcher error", zap.Error(err))

		case <-ctx.Done():
			w.logger.Debug("overlay watcher stopping")
			return
		}
	}
}

func (w *OverlayWatcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(overlayDebounce, w.reload)
}

func (w *OverlayWatcher) reload() {
	if err := w.registry.LoadOverlay(w.dir); err != nil {
		w.logger.Error("prompt overlay reload rejected, keeping previous set",
			zap.String("dir", w.dir), zap.Error(err))
		return
	}
	if w.onReload != nil {
		w.onReload()
	}
}
