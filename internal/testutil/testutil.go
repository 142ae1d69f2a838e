// Package testutil provides HTTP testing helpers for the dashboard server.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"walletdash/internal/config"
)

// TestServer is a running httptest server plus request helpers
type TestServer struct {
	BaseURL string

	t          *testing.T
	client     *http.Client
	noRedirect *http.Client
}

// ProjectRoot walks up from this file to the directory holding go.mod
func ProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("testutil: no caller info")
	}
	for dir := filepath.Dir(filename); ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		if dir == filepath.Dir(dir) {
			panic("testutil: go.mod not found")
		}
	}
}

// TestDataDir is the fixture data directory (testdata/dashboard.yaml)
func TestDataDir() string {
	return filepath.Join(ProjectRoot(), "testdata")
}

// TestConfig returns defaults pointed at the fixture data directory with
// embedded templates and a random port
func TestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ListenAddr = ":0"
	cfg.Debug = true
	cfg.DataDirectory = TestDataDir()
	return cfg
}

// NewTestServer serves router until the test ends
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := server.Client()
	noRedirect := *client
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &TestServer{
		BaseURL:    server.URL,
		t:          t,
		client:     client,
		noRedirect: &noRedirect,
	}
}

func (ts *TestServer) get(c *http.Client, target string) *http.Response {
	ts.t.Helper()
	resp, err := c.Get(ts.BaseURL + target)
	require.NoError(ts.t, err, "GET %s", target)
	return resp
}

// GET requests path, following redirects
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()
	return ts.get(ts.client, path)
}

// GETWithQuery requests path with the given query parameters
func (ts *TestServer) GETWithQuery(path string, query map[string]string) *http.Response {
	ts.t.Helper()
	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	if len(values) > 0 {
		path += "?" + values.Encode()
	}
	return ts.get(ts.client, path)
}

// GETNoRedirect requests path and returns redirects as-is
func (ts *TestServer) GETNoRedirect(path string) *http.Response {
	ts.t.Helper()
	return ts.get(ts.noRedirect, path)
}
