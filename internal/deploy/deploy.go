// Package deploy publishes a project's files as a static site.
package deploy

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/preview"
)

var (
	ErrUnauthorized = errors.New("invalid access token")
	ErrNoFiles      = errors.New("no project files to deploy")
)

// maxSlug is the longest DNS label a site name may use.
const maxSlug = 63

type Result struct {
	URL    string `json:"url"`
	SiteID string `json:"siteId"`
}

type Deployer interface {
	Deploy(ctx context.Context, name string, files map[string]string) (Result, error)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]`)

// Slug builds a unique site name from a project name.
func Slug(name string) string {
	return SlugAt(name, time.Now(), strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// SlugAt is Slug with the clock and random suffix supplied.
func SlugAt(name string, now time.Time, suffix string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "-") + "-" +
		strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
	if len(s) > maxSlug {
		s = s[:maxSlug]
	}
	return s
}

// Payload is the file set published for p. The first HTML file is replaced by
// index.html holding the deploy-time assembled document.
func Payload(p *models.Project) (map[string]string, error) {
	if p == nil || len(p.Files) == 0 {
		return nil, ErrNoFiles
	}
	files := p.FileMap()
	if doc := preview.Assemble(p.Files, preview.ForDeploy()); doc != "" {
		files[models.IndexHTML] = doc
	}
	return files, nil
}

// Nop refuses every deploy; it backs DEPLOY_TARGET=none.
type Nop struct{}

var ErrDisabled = errors.New("deployment is disabled")

func (Nop) Deploy(context.Context, string, map[string]string) (Result, error) {
	return Result{}, ErrDisabled
}
