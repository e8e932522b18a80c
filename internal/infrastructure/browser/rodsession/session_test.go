package rodsession

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.True(t, cfg.NoSandbox)
	assert.False(t, cfg.DevTools)
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestSession_NavigateAndCurrentURL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>Nav</title></head><body><h1>Hi</h1></body></html>`)
	}))
	defer server.Close()

	s := newSession(t)

	require.NoError(t, s.Navigate(server.URL))
	assert.Equal(t, server.URL+"/", s.CurrentURL())
	assert.NotNil(t, s.Page())
}

func TestSession_Screenshot(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><body style="background:#007bff;width:800px;height:600px"><h1>Shot</h1></body></html>`)
	}))
	defer server.Close()

	s := newSession(t)
	require.NoError(t, s.Navigate(server.URL))

	shot, err := s.Screenshot()
	require.NoError(t, err)
	assert.NotEmpty(t, shot.Data)
	assert.Equal(t, "png", shot.Format)
	assert.Greater(t, shot.Width, 0)
	assert.Greater(t, shot.Height, 0)
}

func TestSession_ScreenshotForLLM_Resizes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><body style="width:2000px;height:1200px"><h1>Wide</h1></body></html>`)
	}))
	defer server.Close()

	s := newSession(t)
	require.NoError(t, s.Navigate(server.URL))

	shot, err := s.ScreenshotForLLM()
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.LessOrEqual(t, shot.Width, screenshotMaxWidth)
	assert.NotEmpty(t, shot.Data)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	s, err := NewSession(DefaultConfig())
	require.NoError(t, err)

	assert.True(t, s.IsReady())

	s.Close()
	assert.False(t, s.IsReady())

	assert.NotPanics(t, s.Close)

	err = s.Navigate("http://example.com")
	assert.Error(t, err)
}
