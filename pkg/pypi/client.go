/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: client.go
Description: HTTP client for the PyPI JSON API. Fetches project and release
metadata with timeouts, status mapping, and structured logging. Missing projects
are a distinct, expected outcome (ErrProjectNotFound) rather than a generic error.
*/

package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the production index.
const DefaultBaseURL = "https://pypi.org"

// userAgent identifies the inspector to the index.
const userAgent = "pypi-inspector (+https://github.com/kleascm/pypi-inspector)"

// ErrProjectNotFound marks a project or release the index does not
// know. Callers render it as a 404-style page, not a failure.
var ErrProjectNotFound = errors.New("pypi: project not found")

// Client talks to the PyPI JSON and simple APIs.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// NewClient creates a client against the given index base URL. An
// empty baseURL selects the production index.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used for fetch diagnostics.
func (c *Client) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// ReleaseFile is one downloadable artifact of a release.
type ReleaseFile struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	PackageType string `json:"packagetype"`
}

// Info is the project-level metadata block of the JSON API.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Summary string `json:"summary"`
}

// Project is the response of /pypi/<name>/json.
type Project struct {
	Info     Info                     `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
}

// Release is the response of /pypi/<name>/<version>/json.
type Release struct {
	Info Info          `json:"info"`
	URLs []ReleaseFile `json:"urls"`
}

// Project fetches project metadata including the release map.
func (c *Client) Project(ctx context.Context, name string) (*Project, error) {
	var project Project
	endpoint := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(CanonicalName(name)))
	if err := c.getJSON(ctx, endpoint, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Release fetches metadata for a single release.
func (c *Client) Release(ctx context.Context, name, version string) (*Release, error) {
	var release Release
	endpoint := fmt.Sprintf("%s/pypi/%s/%s/json",
		c.baseURL, url.PathEscape(CanonicalName(name)), url.PathEscape(version))
	if err := c.getJSON(ctx, endpoint, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// SortedVersions returns the project's release versions newest-first.
func (p *Project) SortedVersions() []string {
	versions := make([]string, 0, len(p.Releases))
	for v := range p.Releases {
		versions = append(versions, v)
	}
	return SortReleases(versions)
}

// getJSON performs one GET and decodes the JSON body. 404 maps to
// ErrProjectNotFound; every other non-200 status is an error.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"url":      endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Index metadata fetched")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProjectNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("index returned status %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode index response: %w", err)
	}
	return nil
}
