package synthesizer

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"sparrow-backend/internal/models"
)

var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrFileExists      = errors.New("file already exists")
	ErrFileNotFound    = errors.New("file not found")
)

const maxFilenameLen = 255

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	allowedNameRe = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)
)

// FileID derives the stable file id from its name.
func FileID(name string) string {
	return nonAlnumRe.ReplaceAllString(name, "_")
}

// LanguageFromName infers a language from the file extension.
func LanguageFromName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".js":
		return "javascript"
	case ".json":
		return "json"
	}
	return "text"
}

// NormalizeLanguage maps a fence tag onto the language names stored on files.
// An empty tag falls back to the file extension.
func NormalizeLanguage(tag, name string) string {
	switch strings.ToLower(tag) {
	case "":
		return LanguageFromName(name)
	case "js":
		return "javascript"
	case "ts":
		return "typescript"
	}
	return strings.ToLower(tag)
}

// ValidFilename reports whether name is safe to store: a relative slash
// separated path of allowed characters with no empty, "." or ".." segments.
func ValidFilename(name string) bool {
	if name == "" || len(name) > maxFilenameLen {
		return false
	}
	if !allowedNameRe.MatchString(name) || strings.HasPrefix(name, "/") {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// NewProject returns an empty project.
func NewProject(name, description string, now time.Time) *models.Project {
	id := uuid.New().String()
	if name == "" {
		name = "Project " + id[len(id)-4:]
	}
	return &models.Project{
		ID:           id,
		Name:         name,
		Description:  description,
		Files:        []models.ProjectFile{},
		CreatedAt:    now,
		LastModified: now,
	}
}

// NewDefaultProject returns a project seeded with the starter page, stylesheet
// and script shown before the first reply arrives.
func NewDefaultProject(name string, now time.Time) *models.Project {
	p := NewProject(name, "Generated web application", now)
	for _, f := range []struct{ name, content string }{
		{models.IndexHTML, starterHTML},
		{models.StylesCSS, starterCSS},
		{models.ScriptJS, starterJS},
	} {
		p.Files = append(p.Files, newFile(f.name, f.content, LanguageFromName(f.name), now))
	}
	return p
}

// Apply reconciles one reply's filenames and blocks against project and
// returns the updated copy. project itself is never modified, so a caller
// only ever observes the complete batch. A nil project starts a new one.
// Names that fail ValidFilename are dropped.
func Apply(project *models.Project, filenames []string, blocks []models.CodeBlock, now time.Time) *models.Project {
	var p *models.Project
	if project == nil {
		p = NewProject("", "Generated web application", now)
	} else {
		p = project.Clone()
	}

	for _, name := range filenames {
		if !ValidFilename(name) {
			slog.Debug("dropping invalid filename", "name", name)
			continue
		}
		if p.FileByName(name) >= 0 {
			continue
		}
		if idClash(p, name) {
			slog.Debug("dropping filename with clashing id", "name", name)
			continue
		}
		p.Files = append(p.Files, newFile(name, Placeholder(name), LanguageFromName(name), now))
	}

	for _, b := range blocks {
		if !ValidFilename(b.Filename) {
			slog.Debug("dropping block with invalid filename", "name", b.Filename)
			continue
		}
		if idClash(p, b.Filename) {
			slog.Debug("dropping block with clashing id", "name", b.Filename)
			continue
		}
		lang := NormalizeLanguage(b.Language, b.Filename)
		if i := p.FileByName(b.Filename); i >= 0 {
			p.Files[i].Content = b.Content
			p.Files[i].Language = lang
			p.Files[i].LastModified = now
			continue
		}
		p.Files = append(p.Files, newFile(b.Filename, b.Content, lang, now))
	}

	for _, name := range models.CanonicalFiles {
		i := p.FileByName(name)
		if i < 0 || !IsPlaceholder(p.Files[i]) {
			continue
		}
		p.Files[i].Content = DefaultContent(name)
		p.Files[i].LastModified = now
	}

	p.LastModified = now
	return p
}

// UpsertFile writes content to name, creating the file when needed.
func UpsertFile(project *models.Project, name, content, language string, now time.Time) (*models.Project, error) {
	if !ValidFilename(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if idClash(project, name) {
		return nil, fmt.Errorf("%w: id %s", ErrFileExists, FileID(name))
	}
	p := project.Clone()
	lang := NormalizeLanguage(language, name)
	if i := p.FileByName(name); i >= 0 {
		p.Files[i].Content = content
		p.Files[i].Language = lang
		p.Files[i].LastModified = now
	} else {
		p.Files = append(p.Files, newFile(name, content, lang, now))
	}
	p.LastModified = now
	return p, nil
}

// RenameFile renames the file with the given id. Its id follows the new name.
func RenameFile(project *models.Project, fileID, newName string, now time.Time) (*models.Project, error) {
	if !ValidFilename(newName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilename, newName)
	}
	i := project.FileByID(fileID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	if j := project.FileByName(newName); j >= 0 && j != i {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, newName)
	}
	if k := project.FileByID(FileID(newName)); k >= 0 && k != i {
		return nil, fmt.Errorf("%w: id %s", ErrFileExists, FileID(newName))
	}
	p := project.Clone()
	p.Files[i].Name = newName
	p.Files[i].ID = FileID(newName)
	p.Files[i].LastModified = now
	p.LastModified = now
	return p, nil
}

// DeleteFile removes the file with the given id.
func DeleteFile(project *models.Project, fileID string, now time.Time) (*models.Project, error) {
	i := project.FileByID(fileID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fileID)
	}
	p := project.Clone()
	p.Files = append(p.Files[:i], p.Files[i+1:]...)
	p.LastModified = now
	return p, nil
}

// Duplicate copies a project under a new id.
func Duplicate(project *models.Project, now time.Time) *models.Project {
	p := project.Clone()
	p.ID = uuid.New().String()
	p.Name = project.Name + " (Copy)"
	p.CreatedAt = now
	p.LastModified = now
	return p
}

// idClash reports whether adding name would give two files the same id.
func idClash(p *models.Project, name string) bool {
	return p.FileByName(name) < 0 && p.FileByID(FileID(name)) >= 0
}

func newFile(name, content, language string, now time.Time) models.ProjectFile {
	return models.ProjectFile{
		ID:           FileID(name),
		Name:         name,
		Content:      content,
		Language:     language,
		LastModified: now,
	}
}
