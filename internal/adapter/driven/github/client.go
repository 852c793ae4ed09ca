// Package github implements the CatalogSource port by reading a catalog JSON
// file from a GitHub repository with the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/opticatalog/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/opticatalog/internal/domain/model"
	"github.com/ericfisherdev/opticatalog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CatalogSource = (*Source)(nil)

// Source reads a catalog file (a JSON array of records) from a repository.
type Source struct {
	gh    *gh.Client
	owner string
	repo  string
	path  string
	ref   string // Branch, tag or SHA; empty means the default branch.
}

// NewSource creates a Source with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is set)
func NewSource(token, repoFullName, path, ref string) (*Source, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Source{gh: client, owner: owner, repo: repo, path: path, ref: ref}, nil
}

// NewSourceWithHTTPClient creates a Source with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewSourceWithHTTPClient(httpClient *http.Client, baseURL, repoFullName, path, ref string) (*Source, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Source{gh: client, owner: owner, repo: repo, path: path, ref: ref}, nil
}

// Fetch downloads and decodes the catalog file.
func (s *Source) Fetch(ctx context.Context) ([]model.Transceiver, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: s.ref}

	file, dir, resp, err := s.gh.Repositories.GetContents(ctx, s.owner, s.repo, s.path, opts)
	if err != nil {
		return nil, fmt.Errorf("get contents of %s: %w", s.Describe(), err)
	}
	logRateLimit(resp, s.Describe())

	if file == nil {
		return nil, fmt.Errorf("%s is a directory with %d entries, expected a JSON file", s.Describe(), len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode contents of %s: %w", s.Describe(), err)
	}

	records, err := jsonfile.DecodeRecords([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Describe(), err)
	}
	return records, nil
}

// Describe returns owner/repo/path@ref.
func (s *Source) Describe() string {
	d := s.owner + "/" + s.repo + "/" + strings.TrimPrefix(s.path, "/")
	if s.ref != "" {
		d += "@" + s.ref
	}
	return d
}

func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
