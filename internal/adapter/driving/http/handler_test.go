package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/commentpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockAnalyzerClient struct {
	analyze func(ctx context.Context, videoID string, maxComments int) (*model.AnalysisPayload, error)
	sample  func(ctx context.Context) (*model.AnalysisPayload, error)
	health  func(ctx context.Context) (*driven.BackendHealth, error)
}

func (m *mockAnalyzerClient) Analyze(ctx context.Context, videoID string, maxComments int) (*model.AnalysisPayload, error) {
	return m.analyze(ctx, videoID, maxComments)
}

func (m *mockAnalyzerClient) SampleData(ctx context.Context) (*model.AnalysisPayload, error) {
	return m.sample(ctx)
}

func (m *mockAnalyzerClient) Health(ctx context.Context) (*driven.BackendHealth, error) {
	return m.health(ctx)
}

type mockRunStore struct {
	runs []model.AnalysisRun
	run  *model.AnalysisRun
	err  error

	gotLimit int
}

func (m *mockRunStore) Record(_ context.Context, run model.AnalysisRun) (int64, error) {
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), m.err
}

func (m *mockRunStore) Get(_ context.Context, _ int64) (*model.AnalysisRun, error) {
	return m.run, m.err
}

func (m *mockRunStore) ListRecent(_ context.Context, limit int) ([]model.AnalysisRun, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

// --- Helpers ---

func samplePayload() *model.AnalysisPayload {
	return &model.AnalysisPayload{
		VideoID: "abc123",
		Comments: []model.RawComment{
			{ID: "1", Text: "love it", Sentiment: model.SentimentPositive},
			{ID: "2", Text: "great", Sentiment: model.SentimentPositive},
			{ID: "3", Text: "meh", Sentiment: model.SentimentNegative},
		},
		SentimentCounts: &model.SentimentCounts{Positive: 2, Negative: 1},
	}
}

func staticClient(payload *model.AnalysisPayload, err error) *mockAnalyzerClient {
	return &mockAnalyzerClient{
		analyze: func(context.Context, string, int) (*model.AnalysisPayload, error) { return payload, err },
		sample:  func(context.Context) (*model.AnalysisPayload, error) { return payload, err },
		health: func(context.Context) (*driven.BackendHealth, error) {
			return &driven.BackendHealth{Status: "healthy", Components: map[string]bool{"model": true}}, nil
		},
	}
}

type testServer struct {
	handler    http.Handler
	controller *application.AnalysisController
	service    *application.AnalysisService
}

func setupServer(client driven.AnalyzerClient, store driven.RunStore) testServer {
	ctrl := application.NewAnalysisController(slog.Default())
	svc := application.NewAnalysisService(ctrl, client, store, 0, slog.Default())
	h := httphandler.NewHandler(ctrl, svc, store, nil, slog.Default())

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)

	return testServer{
		handler:    httphandler.ApplyMiddleware(mux, slog.Default()),
		controller: ctrl,
		service:    svc,
	}
}

func (s testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

// --- Tests ---

func TestHealth(t *testing.T) {
	srv := setupServer(staticClient(nil, nil), nil)

	rec := srv.do(http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp httphandler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	_, err := time.Parse(time.RFC3339, resp.Time)
	assert.NoError(t, err)
}

func TestAnalyze_Success(t *testing.T) {
	var gotVideoID string
	client := staticClient(samplePayload(), nil)
	client.analyze = func(_ context.Context, videoID string, maxComments int) (*model.AnalysisPayload, error) {
		gotVideoID = videoID
		assert.Equal(t, application.DefaultMaxComments, maxComments)
		return samplePayload(), nil
	}
	store := &mockRunStore{}
	srv := setupServer(client, store)

	rec := srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://www.youtube.com/watch?v=abc123&t=10"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", gotVideoID)

	var resp httphandler.AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc123", resp.VideoID)
	assert.Equal(t, int64(1), resp.RunID)
	assert.Equal(t, 3, resp.Stats.Total)
	assert.Equal(t, httphandler.CountsResponse{Positive: 2, Negative: 1}, resp.Stats.Counts)
	assert.Equal(t, 67, resp.Stats.Percentages["positive"])
	assert.Equal(t, "+0.33", resp.Stats.Average)
	assert.Equal(t, "LOW", resp.Stats.Engagement)

	require.Len(t, store.runs, 1)
	assert.Equal(t, model.RunStatusComplete, store.runs[0].Status)
}

func TestAnalyze_Sample(t *testing.T) {
	client := staticClient(samplePayload(), nil)
	client.analyze = func(context.Context, string, int) (*model.AnalysisPayload, error) {
		t.Fatal("analyze must not be called for sample requests")
		return nil, nil
	}
	srv := setupServer(client, nil)

	rec := srv.do(http.MethodPost, "/api/v1/analyze", `{"sample":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.controller.Snapshot().HasAnalysisData)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		clientErr  error
		wantStatus int
		wantError  string
	}{
		{
			name:       "no video id",
			body:       `{"url":"https://example.com/page"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "could not detect video ID",
		},
		{
			name:       "backend error status",
			body:       `{"url":"https://youtu.be/abc123"}`,
			clientErr:  model.NewTransportError(http.StatusInternalServerError, "quota exceeded", nil),
			wantStatus: http.StatusBadGateway,
			wantError:  "quota exceeded",
		},
		{
			name:       "network failure",
			body:       `{"url":"https://youtu.be/abc123"}`,
			clientErr:  model.NewTransportError(0, "", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to analyze video",
		},
		{
			name:       "malformed response",
			body:       `{"url":"https://youtu.be/abc123"}`,
			clientErr:  model.ErrMalformedResponse,
			wantStatus: http.StatusBadGateway,
			wantError:  "malformed analysis response",
		},
		{
			name:       "unclassified failure",
			body:       `{"url":"https://youtu.be/abc123"}`,
			clientErr:  errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "boom",
		},
		{
			name:       "invalid body",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(staticClient(samplePayload(), tt.clientErr), nil)

			rec := srv.do(http.MethodPost, "/api/v1/analyze", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantError)
			assert.False(t, srv.controller.Snapshot().HasAnalysisData)
		})
	}
}

func TestAnalyze_FailureKeepsPreviousData(t *testing.T) {
	client := staticClient(samplePayload(), nil)
	srv := setupServer(client, nil)

	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/abc123"}`).Code)

	client.analyze = func(context.Context, string, int) (*model.AnalysisPayload, error) {
		return nil, model.NewTransportError(http.StatusServiceUnavailable, "down", nil)
	}
	rec := srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/other"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	snap := srv.controller.Snapshot()
	assert.Len(t, snap.Comments, 3)
	assert.Equal(t, model.PhaseFailed, snap.Status.Phase)
}

func TestAnalyze_BusyWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	client := staticClient(samplePayload(), nil)
	client.analyze = func(context.Context, string, int) (*model.AnalysisPayload, error) {
		<-release
		return samplePayload(), nil
	}
	srv := setupServer(client, nil)

	done := make(chan int, 1)
	go func() {
		done <- srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/abc123"}`).Code
	}()

	require.Eventually(t, srv.service.IsAnalyzing, time.Second, 5*time.Millisecond)

	rec := srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/abc123"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"busy"}`, rec.Body.String())

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestState(t *testing.T) {
	srv := setupServer(staticClient(samplePayload(), nil), nil)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/abc123"}`).Code)

	rec := srv.do(http.MethodGet, "/api/v1/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p viewmodel.Popup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, 3, p.Stats.Total)
	assert.Equal(t, "all", p.Comments.Filter)
	assert.Len(t, p.Comments.Items, 3)
	assert.Equal(t, "complete", p.Status.Phase)
	assert.Equal(t, viewmodel.SummaryFallback, p.Summary.Kind)
}

func TestState_FilterPreviewDoesNotMoveCursor(t *testing.T) {
	srv := setupServer(staticClient(samplePayload(), nil), nil)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/abc123"}`).Code)

	rec := srv.do(http.MethodGet, "/api/v1/state?filter=negative", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p viewmodel.Popup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "negative", p.Comments.Filter)
	assert.Len(t, p.Comments.Items, 1)
	assert.Equal(t, model.FilterAll, srv.controller.Snapshot().CurrentFilter)

	rec = srv.do(http.MethodGet, "/api/v1/state?filter=furious", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetFilter(t *testing.T) {
	srv := setupServer(staticClient(samplePayload(), nil), nil)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/api/v1/analyze", `{"url":"https://youtu.be/abc123"}`).Code)

	rec := srv.do(http.MethodPut, "/api/v1/filter", `{"filter":"positive"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.FilterResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "positive", resp.Filter)
	assert.Equal(t, 2, resp.MatchCount)
	require.Len(t, resp.Comments, 2)
	assert.Equal(t, "joy", resp.Comments[0].Emotion)
	assert.Equal(t, model.FilterPositive, srv.controller.Snapshot().CurrentFilter)
	assert.Len(t, srv.controller.Snapshot().Comments, 3, "filtering never removes comments")

	rec = srv.do(http.MethodPut, "/api/v1/filter", `{"filter":"happy"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "invalid filter")
}

func TestSetChart(t *testing.T) {
	srv := setupServer(staticClient(nil, nil), nil)

	rec := srv.do(http.MethodPut, "/api/v1/chart", `{"mode":"wave"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"wave"}`, rec.Body.String())
	assert.Equal(t, model.ChartWave, srv.controller.Snapshot().ChartMode)

	rec = srv.do(http.MethodPut, "/api/v1/chart", `{"mode":"scatter"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRuns(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &mockRunStore{runs: []model.AnalysisRun{{
		ID:           7,
		VideoID:      "abc123",
		Status:       model.RunStatusFailed,
		ErrorKind:    "transport_failure",
		ErrorMessage: "down",
		StartedAt:    started,
		FinishedAt:   started.Add(1500 * time.Millisecond),
	}}}
	srv := setupServer(staticClient(nil, nil), store)

	rec := srv.do(http.MethodGet, "/api/v1/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.gotLimit)

	var resp []httphandler.RunResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(7), resp[0].ID)
	assert.Equal(t, "failed", resp[0].Status)
	assert.Equal(t, "2026-03-01T10:00:00Z", resp[0].StartedAt)
	assert.Equal(t, int64(1500), resp[0].DurationMS)
}

func TestListRuns_Limits(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{name: "default", query: "", wantStatus: http.StatusOK, wantLimit: 20},
		{name: "zero", query: "?limit=0", wantStatus: http.StatusBadRequest},
		{name: "too large", query: "?limit=1000", wantStatus: http.StatusBadRequest},
		{name: "not a number", query: "?limit=ten", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockRunStore{}
			srv := setupServer(staticClient(nil, nil), store)

			rec := srv.do(http.MethodGet, "/api/v1/runs"+tt.query, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLimit, store.gotLimit)
		})
	}
}

func TestListRuns_StoreError(t *testing.T) {
	srv := setupServer(staticClient(nil, nil), &mockRunStore{err: errors.New("disk full")})

	rec := srv.do(http.MethodGet, "/api/v1/runs", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

func TestGetRun(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store := &mockRunStore{run: &model.AnalysisRun{ID: 3, VideoID: "abc123", Status: model.RunStatusComplete, CommentCount: 3}}
		srv := setupServer(staticClient(nil, nil), store)

		rec := srv.do(http.MethodGet, "/api/v1/runs/3", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp httphandler.RunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 3, resp.CommentCount)
	})

	t.Run("not found", func(t *testing.T) {
		srv := setupServer(staticClient(nil, nil), &mockRunStore{err: driven.ErrRunNotFound})

		rec := srv.do(http.MethodGet, "/api/v1/runs/99", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		srv := setupServer(staticClient(nil, nil), &mockRunStore{})

		rec := srv.do(http.MethodGet, "/api/v1/runs/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBackendHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := setupServer(staticClient(nil, nil), nil)

		rec := srv.do(http.MethodGet, "/api/v1/backend/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy","components":{"model":true}}`, rec.Body.String())
	})

	t.Run("unreachable", func(t *testing.T) {
		client := staticClient(nil, nil)
		client.health = func(context.Context) (*driven.BackendHealth, error) {
			return nil, model.NewTransportError(0, "", errors.New("connection refused"))
		}
		srv := setupServer(client, nil)

		rec := srv.do(http.MethodGet, "/api/v1/backend/health", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRecoveryMiddleware_AfterResponseStarted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	})
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/partial", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
