/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetcher.go
Description: Artifact downloader for distribution files. Streams a release
file from its hosting URL into memory with a hard size cap and structured
logging of the transfer.
*/

package distribution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/pypi-inspector/pkg/logging"
)

// maxArtifactSize caps a downloaded artifact. Anything larger is not
// worth rendering file by file in a browser anyway.
const maxArtifactSize = 256 << 20

// ErrArtifactTooLarge marks a download above the artifact cap.
var ErrArtifactTooLarge = errors.New("distribution: artifact exceeds size limit")

// Fetcher downloads distribution artifacts.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads artifacts over HTTP with a bounded body read.
type HTTPFetcher struct {
	http   *http.Client
	events *logging.Logger
}

// NewHTTPFetcher creates a fetcher with the given transfer timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPFetcher{
		http:   &http.Client{Timeout: timeout},
		events: logging.Wrap(logrus.StandardLogger()),
	}
}

// SetLogger replaces the logger used for transfer diagnostics.
func (f *HTTPFetcher) SetLogger(logger *logging.Logger) {
	if logger != nil {
		f.events = logger
	}
}

// Fetch downloads the artifact at url into memory.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artifact host returned status %d for %s", resp.StatusCode, url)
	}
	if resp.ContentLength > maxArtifactSize {
		return nil, fmt.Errorf("%w: %s", ErrArtifactTooLarge, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", url, err)
	}
	if len(data) > maxArtifactSize {
		return nil, fmt.Errorf("%w: %s", ErrArtifactTooLarge, url)
	}

	f.events.LogFetch(url, len(data), time.Since(start), nil)

	return data, nil
}
