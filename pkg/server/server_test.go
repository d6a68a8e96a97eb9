/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server_test.go
Description: Tests for the inspector HTTP routes. Runs the handler against a
stub index and a stub artifact fetcher and verifies redirects, listings, file
rendering through the fallback decoder, and the binary sentinel message.
*/

package server

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/kleascm/pypi-inspector/pkg/charset"
	"github.com/kleascm/pypi-inspector/pkg/pypi"
)

// stubFetcher serves canned artifact bytes keyed by URL.
type stubFetcher struct {
	artifacts map[string][]byte
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := f.artifacts[url]
	if !ok {
		return nil, fmt.Errorf("no artifact at %s", url)
	}
	return data, nil
}

const wheelPath = "/packages/ab/cd/ef0123/sample-1.0-py3-none-any.whl"

func buildWheel(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("sample/__init__.py")
	require.NoError(t, err)
	_, err = w.Write([]byte("print('hello')\n"))
	require.NoError(t, err)

	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("# こんにちは世界。これは日本語のテストです。\n"))
	require.NoError(t, err)
	w, err = zw.Create("sample/notes.py")
	require.NoError(t, err)
	_, err = w.Write(sjis)
	require.NoError(t, err)

	w, err = zw.Create("sample/blob.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithLogger(t, nil)
}

func newTestServerWithLogger(t *testing.T, logger *logrus.Logger) *Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/pypi/sample/json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{
			"info": {"name": "sample", "version": "1.0"},
			"releases": {"0.9": [], "1.0": [{"filename": "sample-1.0-py3-none-any.whl", "url": "https://files.example%s", "size": 1, "packagetype": "bdist_wheel"}]}
		}`, wheelPath)
	})
	mux.HandleFunc("/pypi/sample/1.0/json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{
			"info": {"name": "sample", "version": "1.0"},
			"urls": [{"filename": "sample-1.0-py3-none-any.whl", "url": "https://files.example%s", "size": 1, "packagetype": "bdist_wheel"}]
		}`, wheelPath)
	})
	mux.HandleFunc("/pypi/flaky/2.0/json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream failure", http.StatusInternalServerError)
	})
	mux.HandleFunc("/simple/flaky/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="https://files.example/packages/xx/yy/wwww/flaky-1.0.tar.gz#sha256=aaaa">flaky-1.0.tar.gz</a>
			<a href="https://files.example/packages/xx/yy/zzzz/flaky-2.0-py3-none-any.whl#sha256=bbbb">flaky-2.0-py3-none-any.whl</a>
		</body></html>`)
	})
	index := httptest.NewServer(mux)
	t.Cleanup(index.Close)

	engine, err := charset.NewDefaultEngine()
	require.NoError(t, err)

	filesHost := "https://files.test"
	server, err := New(Config{
		FilesHost: filesHost,
		Client:    pypi.NewClient(index.URL, 5*time.Second),
		Fetcher: &stubFetcher{artifacts: map[string][]byte{
			filesHost + wheelPath: buildWheel(t),
		}},
		Engine: engine,
		Logger: logger,
	})
	require.NoError(t, err)
	return server
}

func get(t *testing.T, handler http.Handler, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Result()
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return string(data)
}

// TestIndex verifies the landing page and the search redirect
func TestIndex(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Project name")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = get(t, handler, "/?project=%20Sample%20")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/project/Sample/", resp.Header.Get("Location"))
}

// TestVersions verifies the release listing sorts newest-first
func TestVersions(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := body(t, resp)
	assert.Less(t, strings.Index(page, `"./1.0/"`), strings.Index(page, `"./0.9/"`))
}

// TestVersions_CanonicalRedirect verifies non-canonical names 301 to
// the canonical form
func TestVersions_CanonicalRedirect(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/Sample_Project/")
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/project/sample-project/", resp.Header.Get("Location"))
}

// TestVersions_NotFound verifies a missing project renders the
// self-hosted not-found page
func TestVersions_NotFound(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/ghost/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "could not be found")
}

// TestDistributions verifies artifact links are rebuilt as relative
// packages paths
func TestDistributions(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/1.0/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "."+wheelPath+"/")
}

// TestDistributions_UnknownRelease verifies a missing release falls
// back to the project view
func TestDistributions_UnknownRelease(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/9.9/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/project/sample/", resp.Header.Get("Location"))
}

// TestDistributions_SimpleIndexFallback verifies a failing JSON API
// falls back to the simple index page and filters it to the release
func TestDistributions_SimpleIndexFallback(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/flaky/2.0/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := body(t, resp)
	assert.Contains(t, page, "./packages/xx/yy/zzzz/flaky-2.0-py3-none-any.whl/")
	assert.NotContains(t, page, "flaky-1.0.tar.gz")
}

// TestServerCachesAreIndependent verifies one server's artifact cache
// cannot serve another server's requests
func TestServerCachesAreIndependent(t *testing.T) {
	serverA := newTestServer(t)
	resp := get(t, serverA.Handler(), "/project/sample/1.0"+wheelPath+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	serverB := newTestServer(t)
	serverB.fetcher = &stubFetcher{artifacts: map[string][]byte{}}

	resp = get(t, serverB.Handler(), "/project/sample/1.0"+wheelPath+"/")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestRequestAndDecodeLogging verifies the access and decode events
// carry their structured fields
func TestRequestAndDecodeLogging(t *testing.T) {
	base, hook := test.NewNullLogger()
	handler := newTestServerWithLogger(t, base).Handler()

	path := "/project/sample/1.0" + wheelPath + "/sample/__init__.py"
	resp := get(t, handler, path)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var request, decode *logrus.Entry
	for _, entry := range hook.AllEntries() {
		switch entry.Message {
		case "Request handled":
			request = entry
		case "Content decoded":
			decode = entry
		}
	}

	require.NotNil(t, request)
	assert.Equal(t, path, request.Data["path"])
	assert.Equal(t, http.StatusOK, request.Data["status"])
	assert.NotEmpty(t, request.Data["request_id"])

	require.NotNil(t, decode)
	assert.Equal(t, "utf-8", decode.Data["encoding"])
	assert.Equal(t, false, decode.Data["binary"])
}

// TestDistribution verifies the archive member listing
func TestDistribution(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/1.0"+wheelPath+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := body(t, resp)
	assert.Contains(t, page, "./sample/__init__.py")
	assert.Contains(t, page, "./sample/notes.py")
	assert.Contains(t, page, "./sample/blob.bin")
}

// TestDistribution_Unsupported verifies unknown archive formats get
// the plain-text notice
func TestDistribution_Unsupported(t *testing.T) {
	server := newTestServer(t)
	fetcher := server.fetcher.(*stubFetcher)
	fetcher.artifacts["https://files.test/packages/ab/cd/ef0123/sample-1.0.rpm"] = []byte("rpm bytes")

	resp := get(t, server.Handler(), "/project/sample/1.0/packages/ab/cd/ef0123/sample-1.0.rpm/")
	assert.Contains(t, body(t, resp), "Distribution type not supported")
}

// TestFile verifies a UTF-8 member renders with its details block
func TestFile(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/1.0"+wheelPath+"/sample/__init__.py")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := body(t, resp)
	assert.Contains(t, page, "print(&#39;hello&#39;)")
	assert.Contains(t, page, "Python source")
	assert.Contains(t, page, "mailto:security@pypi.org")
}

// TestFile_FallbackDecoding verifies a legacy-encoded member renders
// through the candidate sweep
func TestFile_FallbackDecoding(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/1.0"+wheelPath+"/sample/notes.py")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "こんにちは世界")
}

// TestFile_Binary verifies a binary member gets the sentinel message
// instead of a rendered page
func TestFile_Binary(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/1.0"+wheelPath+"/sample/blob.bin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, binaryMessage, body(t, resp))
}

// TestFile_NotFound verifies a missing member 404s
func TestFile_NotFound(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/project/sample/1.0"+wheelPath+"/sample/missing.py")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestHealthAndRobots verifies the operational endpoints
func TestHealthAndRobots(t *testing.T) {
	handler := newTestServer(t).Handler()

	resp := get(t, handler, "/_health/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body(t, resp))

	resp = get(t, handler, "/robots.txt")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Disallow: /")
}
