package deploy

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const netlifyAPI = "https://api.netlify.com/api/v1"

// NetlifyClient publishes sites through the Netlify file digest API.
type NetlifyClient struct {
	BaseURL string
	Token   string
	http    *resty.Client
}

func NewNetlifyClient(baseURL, token string) *NetlifyClient {
	if baseURL == "" {
		baseURL = netlifyAPI
	}
	return &NetlifyClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		http:    resty.New().SetTimeout(60 * time.Second),
	}
}

type netlifySite struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	SSLURL string `json:"ssl_url"`
}

type netlifyDeploy struct {
	ID       string   `json:"id"`
	Required []string `json:"required"`
}

func (c *NetlifyClient) Deploy(ctx context.Context, name string, files map[string]string) (Result, error) {
	if len(files) == 0 {
		return Result{}, ErrNoFiles
	}
	if c.Token == "" {
		return Result{}, ErrUnauthorized
	}

	var site netlifySite
	if err := c.do(ctx, http.MethodPost, "/sites", map[string]string{"name": Slug(name)}, &site); err != nil {
		return Result{}, fmt.Errorf("failed to create site: %w", err)
	}
	slog.Info("netlify site created", "site_id", site.ID)

	digests := make(map[string]string, len(files))
	bySHA := make(map[string][]string, len(files))
	for n, content := range files {
		sum := sha1.Sum([]byte(content))
		h := hex.EncodeToString(sum[:])
		digests["/"+n] = h
		bySHA[h] = append(bySHA[h], n)
	}

	var dep netlifyDeploy
	if err := c.do(ctx, http.MethodPost, "/sites/"+site.ID+"/deploys", map[string]any{"files": digests}, &dep); err != nil {
		return Result{}, fmt.Errorf("failed to deploy files: %w", err)
	}

	required := append([]string(nil), dep.Required...)
	sort.Strings(required)
	for _, h := range required {
		for _, n := range bySHA[h] {
			if err := c.upload(ctx, dep.ID, n, files[n]); err != nil {
				return Result{}, fmt.Errorf("failed to upload %s: %w", n, err)
			}
		}
	}

	siteURL := site.SSLURL
	if siteURL == "" {
		siteURL = site.URL
	}
	return Result{URL: siteURL, SiteID: site.ID}, nil
}

func (c *NetlifyClient) upload(ctx context.Context, deployID, name, content string) error {
	rr, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.Token).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody([]byte(content)).
		Put(c.BaseURL + "/deploys/" + deployID + "/files/" + escapePath(name))
	if err != nil {
		return err
	}
	return statusErr(rr)
}

func (c *NetlifyClient) do(ctx context.Context, method, path string, body, out any) error {
	rr, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.Token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(out).
		Execute(method, c.BaseURL+path)
	if err != nil {
		return err
	}
	return statusErr(rr)
}

func statusErr(rr *resty.Response) error {
	if rr.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if rr.IsError() {
		return fmt.Errorf("status %d: %s", rr.StatusCode(), rr.String())
	}
	return nil
}

func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
