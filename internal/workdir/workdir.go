// Package workdir maps projects to and from plain directories on disk.
package workdir

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/preview"
	"sparrow-backend/internal/synthesizer"
)

// PreviewFile is the assembled document written next to the project files.
const PreviewFile = "preview.html"

const maxFileSize = 1 << 20

// Load reads a project from an exported JSON file or from a directory of
// source files.
func Load(path string) (*models.Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var p models.Project
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return &p, nil
	}
	return LoadDir(path)
}

// LoadDir builds a project from the files under dir. Hidden entries, the
// generated preview and names that would not be accepted by the editor are
// skipped.
func LoadDir(dir string) (*models.Project, error) {
	now := time.Now()
	p := synthesizer.NewProject(filepath.Base(filepath.Clean(dir)), "", now)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || rel == PreviewFile || !synthesizer.ValidFilename(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxFileSize {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		next, err := synthesizer.UpsertFile(p, rel, string(content), "", now)
		if err != nil {
			slog.Warn("skipping file", "path", rel, "error", err)
			return nil
		}
		p = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Write stores every project file under dir along with the editor preview.
func Write(dir string, p *models.Project) error {
	for _, f := range p.Files {
		if !synthesizer.ValidFilename(f.Name) {
			continue
		}
		if err := writeFile(filepath.Join(dir, filepath.FromSlash(f.Name)), f.Content); err != nil {
			return err
		}
	}
	return WritePreview(dir, p)
}

// WritePreview assembles p and writes it to dir/preview.html. A project
// without HTML leaves any existing preview alone.
func WritePreview(dir string, p *models.Project) error {
	doc := preview.Assemble(p.Files, preview.ForEditor())
	if doc == "" {
		return nil
	}
	return writeFile(filepath.Join(dir, PreviewFile), doc)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Watch calls onChange once per burst of file changes under dir until ctx
// is done. Changes to preview.html itself are ignored.
func Watch(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) == PreviewFile || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
