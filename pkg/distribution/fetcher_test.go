/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fetcher_test.go
Description: Tests for the artifact downloader. Verifies a successful
transfer, status error mapping, and the declared-size rejection path.
*/

package distribution

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/pypi-inspector/pkg/logging"
)

// TestHTTPFetcher_Fetch verifies a plain transfer round-trips
func TestHTTPFetcher_Fetch(t *testing.T) {
	payload := []byte("artifact bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(server.Close)

	fetcher := NewHTTPFetcher(5 * time.Second)
	data, err := fetcher.Fetch(context.Background(), server.URL+"/sample-1.0.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

// TestHTTPFetcher_LogsTransfer verifies the fetch event is emitted with
// the transfer size
func TestHTTPFetcher_LogsTransfer(t *testing.T) {
	payload := []byte("artifact bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(server.Close)

	base, hook := test.NewNullLogger()
	events := logging.Wrap(base)
	defer events.Close()

	fetcher := NewHTTPFetcher(5 * time.Second)
	fetcher.SetLogger(events)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/sample-1.0.tar.gz")
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Artifact downloaded", entry.Message)
	assert.Equal(t, len(payload), entry.Data["size"])
}

// TestHTTPFetcher_StatusError verifies non-200 responses fail
func TestHTTPFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing.whl")
	assert.Error(t, err)
}

// TestHTTPFetcher_DeclaredSizeCap verifies an oversized Content-Length
// is rejected before the body is read
func TestHTTPFetcher_DeclaredSizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", strconv.FormatInt(maxArtifactSize+1, 10))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	fetcher := NewHTTPFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/huge.whl")
	assert.ErrorIs(t, err, ErrArtifactTooLarge)
}
