package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecharts/internal"
	"pricecharts/internal/errors"
)

func newTestServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	app, err := NewApp(Config{Dir: dir}, internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { app.root.Close() })

	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)
	return server
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	client := &http.Client{CheckRedirect: noRedirect}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex_RedirectsWhenIndexExists(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"index.html":              "<h1>report</h1>",
		"01_price_histogram.html": "<html></html>",
	})

	resp, _ := get(t, server.URL+"/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/index.html", resp.Header.Get("Location"))

	resp, body := get(t, server.URL+"/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>report</h1>", body)
}

func TestIndex_ListsChartsWithoutIndex(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"02_price_by_subcategory_box.html": "x",
		"01_price_histogram.html":          "x",
		"01_price_histogram.png":           "x",
		"notes.txt":                        "x",
	})

	resp, body := get(t, server.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `href="/01_price_histogram.png"`)
	assert.NotContains(t, body, "notes.txt")
	assert.Less(t, strings.Index(body, "01_price_histogram.html"), strings.Index(body, "02_price_by_subcategory_box.html"))
}

func TestIndex_EmptyDirectory(t *testing.T) {
	server := newTestServer(t, nil)

	_, body := get(t, server.URL+"/")
	assert.Contains(t, body, "No charts yet.")
}

func TestFile_ServesChartsAndRejectsOthers(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"01_price_histogram.html": "<!DOCTYPE html><html></html>",
		".env":                    "SECRET=1",
	})

	resp, body := get(t, server.URL+"/01_price_histogram.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "<!DOCTYPE html><html></html>", body)

	for _, p := range []string{"/missing.html", "/.env", "/sub/file.html", "/..%2fetc%2fpasswd"} {
		resp, _ := get(t, server.URL+p)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
	}
}

func TestNewApp_MissingDirectory(t *testing.T) {
	_, err := NewApp(Config{Dir: filepath.Join(t.TempDir(), "nope")}, internal.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestStart_StopsOnCancel(t *testing.T) {
	app, err := NewApp(Config{Dir: t.TempDir(), Addr: "127.0.0.1:0"}, internal.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
