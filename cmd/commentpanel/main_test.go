package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendBody = `{
	"video_id": "abc123",
	"sentiment_counts": {"positive": 1, "negative": 1},
	"comments": [
		{"id": "1", "text": "loved the editing", "sentiment": "positive", "published_at": "2024-01-15T10:30:00Z"},
		{"id": "2", "text": "audio too quiet", "sentiment": "negative", "published_at": "2024-01-15T10:20:00Z"}
	]
}`

// isolateEnv points configuration at a fake backend and a temp database.
func isolateEnv(t *testing.T, backendURL string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("COMMENTPANEL_ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("COMMENTPANEL_API_BASE_URL", backendURL)
	t.Setenv("COMMENTPANEL_DB_PATH", filepath.Join(dir, "runs.db"))
	t.Setenv("COMMENTPANEL_LOG_LEVEL", "error")
}

// mismatchedBody reports sentiment counts far larger than the comment list.
const mismatchedBody = `{
	"video_id": "sample",
	"total_comments": 247,
	"sentiment_counts": {"positive": 156, "negative": 67, "neutral": 24},
	"comments": [
		{"id": "1", "text": "great video", "sentiment": "positive", "published_at": "2024-01-15T10:30:00Z"},
		{"id": "2", "text": "not for me", "sentiment": "negative", "published_at": "2024-01-15T10:20:00Z"}
	]
}`

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return fakeBackendWithSample(t, backendBody)
}

func fakeBackendWithSample(t *testing.T, sample string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(backendBody))
	})
	mux.HandleFunc("GET /api/sample-data", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","components":{"youtube_api":true}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", "never"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	t.Setenv("COMMENTPANEL_MAX_COMMENTS", "not-a-number")

	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err, "version must not load configuration")
	assert.Equal(t, "dev\n", out)

	out, _, err = execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
	assert.NotEmpty(t, info["goVersion"])
}

func TestAnalyze_PrintsPanelAndRecordsRun(t *testing.T) {
	backend := fakeBackend(t)
	isolateEnv(t, backend.URL+"/api")

	out, _, err := execute(t, "analyze", "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)

	assert.Contains(t, out, "ANALYSIS COMPLETE")
	assert.Contains(t, out, "loved the editing")
	assert.Contains(t, out, "[OK] analyzed 2 comments")

	out, _, err = execute(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "complete")
}

func TestAnalyze_Filter(t *testing.T) {
	backend := fakeBackend(t)
	isolateEnv(t, backend.URL+"/api")

	out, _, err := execute(t, "analyze", "--no-history", "--filter", "negative", "https://youtu.be/abc123")
	require.NoError(t, err)

	assert.Contains(t, out, "audio too quiet")
	assert.NotContains(t, out, "loved the editing")
}

func TestAnalyze_Sample(t *testing.T) {
	backend := fakeBackend(t)
	isolateEnv(t, backend.URL+"/api")

	out, _, err := execute(t, "analyze", "--sample", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "COMMENT PANEL · abc123")
}

func TestAnalyze_MismatchedCounts(t *testing.T) {
	backend := fakeBackendWithSample(t, mismatchedBody)
	isolateEnv(t, backend.URL+"/api")

	out, errOut, err := execute(t, "analyze", "--sample", "--no-history")
	require.NoError(t, err)

	assert.Contains(t, out, "7800%")
	assert.Contains(t, out, strings.Repeat("█", 20), "meter is full")
	assert.Contains(t, out, "backend reported 247 comments")
	assert.Contains(t, errOut, "[WARN] sentiment counts do not add up to the 2 comments received")
}

func TestAnalyze_Errors(t *testing.T) {
	backend := fakeBackend(t)
	isolateEnv(t, backend.URL+"/api")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing url", args: []string{"analyze"}, wantErr: "a video URL is required"},
		{name: "invalid filter", args: []string{"analyze", "--filter", "angry", "https://youtu.be/x"}, wantErr: "invalid filter"},
		{name: "not a video page", args: []string{"analyze", "--no-history", "https://example.com/"}, wantErr: "context_unavailable"},
		{name: "bad color", args: []string{"--color", "rainbow", "runs"}, wantErr: "invalid color mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalyze_FailureStillPrintsPanel(t *testing.T) {
	backend := fakeBackend(t)
	isolateEnv(t, backend.URL+"/api")

	out, _, err := execute(t, "analyze", "--no-history", "https://example.com/")
	require.Error(t, err)
	assert.Contains(t, out, "ANALYSIS FAILED")
}

func TestRuns_Empty(t *testing.T) {
	isolateEnv(t, "http://127.0.0.1:1/api")

	out, _, err := execute(t, "runs", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, "No analysis runs recorded\n", out)

	_, _, err = execute(t, "runs", "--limit", "0")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	backend := fakeBackend(t)
	isolateEnv(t, backend.URL+"/api")

	out, _, err := execute(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] backend healthy")
	assert.Contains(t, out, "youtube_api")
}
