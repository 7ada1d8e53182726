package analyzer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/commentpanel/internal/adapter/driven/analyzer"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *analyzer.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return analyzer.NewClientWithHTTPClient(server.Client(), server.URL+"/api/")
}

const analyzeBody = `{
	"video_id": "abc123",
	"total_comments": 3,
	"sentiment_counts": {"positive": 2, "negative": 1},
	"sentiment_percentages": {"positive": 66.7, "negative": 33.3},
	"comments": [
		{"id": "c1", "text": "Love it", "sentiment": "positive", "author": "ann", "published_at": "2024-01-15T10:30:00Z", "like_count": 15, "positive_score": 0.85, "negative_score": 0.05, "neutral_score": 0.10},
		{"id": 42, "text": "Great", "sentiment": "positive", "author": "bob", "published_at": "2024-01-15T10:25:00Z", "like_count": 2},
		{"id": "c3", "text": "Nope", "sentiment": "negative", "author": "cat", "published_at": "2024-01-15T10:20:00Z", "like_count": 0, "positive_score": null}
	],
	"analyzed_at": "2024-01-15T11:00:00",
	"summary": "Mostly **positive**.",
	"keywords": ["love", "great"]
}`

func TestAnalyze_Success(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analyzeBody))
	}))

	p, err := client.Analyze(context.Background(), "abc123", 100)
	require.NoError(t, err)

	assert.Equal(t, "abc123", gotBody["video_id"])
	assert.InDelta(t, 100.0, gotBody["max_comments"], 0)

	assert.Equal(t, "abc123", p.VideoID)
	require.NotNil(t, p.SentimentCounts)
	assert.Equal(t, model.SentimentCounts{Positive: 2, Negative: 1, Neutral: 0}, *p.SentimentCounts)
	require.Len(t, p.Comments, 3)

	c0 := p.Comments[0]
	assert.Equal(t, "c1", c0.ID)
	assert.Equal(t, model.SentimentPositive, c0.Sentiment)
	assert.Equal(t, int64(15), c0.LikeCount)
	assert.Equal(t, "2024-01-15T10:30:00Z", c0.PublishedAt)
	require.NotNil(t, c0.Scores)
	require.NotNil(t, c0.Scores.Positive)
	assert.InDelta(t, 0.85, *c0.Scores.Positive, 1e-9)

	assert.Equal(t, "42", p.Comments[1].ID, "numeric ids are accepted")
	assert.Nil(t, p.Comments[1].Scores)
	assert.Nil(t, p.Comments[2].Scores)

	assert.Equal(t, "Mostly **positive**.", p.Summary)
	assert.Equal(t, []string{"love", "great"}, p.Keywords)
	require.NotNil(t, p.TotalComments)
	assert.Equal(t, 3, *p.TotalComments)
	assert.InDelta(t, 66.7, p.SentimentPercentages[model.SentimentPositive], 1e-9)
}

func TestAnalyze_ErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "backend error field", status: http.StatusNotFound, body: `{"error": "No comments found for this video"}`, wantMsg: "No comments found for this video"},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error": "quota exceeded"}`, wantMsg: "quota exceeded"},
		{name: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: "Failed to analyze video"},
		{name: "json without error field", status: http.StatusBadRequest, body: `{}`, wantMsg: "Failed to analyze video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.Analyze(context.Background(), "abc123", 100)
			require.Error(t, err)

			var te *model.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.wantMsg, te.Message)
			assert.Equal(t, "transport_failure", model.ErrorKind(err))
		})
	}
}

func TestAnalyze_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := analyzer.NewClient(url, time.Second)
	_, err := client.Analyze(context.Background(), "abc123", 100)

	var te *model.TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
}

func TestAnalyze_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `definitely not json`},
		{name: "missing comments", body: `{"sentiment_counts": {"positive": 1}}`},
		{name: "missing sentiment counts", body: `{"comments": []}`},
		{name: "negative count", body: `{"comments": [], "sentiment_counts": {"negative": -1}}`},
		{name: "unknown sentiment key", body: `{"comments": [], "sentiment_counts": {"mixed": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.Analyze(context.Background(), "abc123", 100)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrMalformedResponse)
		})
	}
}

func TestAnalyze_EmptyResult(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"comments": [], "sentiment_counts": {}}`))
	}))

	p, err := client.Analyze(context.Background(), "abc123", 100)
	require.NoError(t, err)
	assert.Empty(t, p.Comments)
	assert.NotNil(t, p.Comments)
	assert.Equal(t, model.SentimentCounts{}, *p.SentimentCounts)
	assert.False(t, p.HasSummary())
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "healthy", "components": {"data_ingestion": true, "model_evaluator": false}, "timestamp": "2024-01-15T11:00:00"}`))
	}))

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.True(t, h.Components["data_ingestion"])
	assert.False(t, h.Components["model_evaluator"])
	assert.Equal(t, "2024-01-15T11:00:00", h.Timestamp)
}

func TestSampleData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sample-data", r.URL.Path)
		_, _ = w.Write([]byte(analyzeBody))
	}))

	p, err := client.SampleData(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.Comments, 3)
}
