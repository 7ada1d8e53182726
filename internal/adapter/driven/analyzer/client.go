// Package analyzer implements the AnalyzerClient port against the sentiment
// analysis backend's JSON API.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AnalyzerClient = (*Client)(nil)

// maxErrorBody bounds how much of a failed response is read looking for an
// error message.
const maxErrorBody = 64 << 10

// Client talks to the analysis backend. Requests are never retried.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a Client for the backend rooted at baseURL (for example
// "http://localhost:5000/api"). GET endpoints go through an in-memory HTTP
// cache so repeated health and sample requests honour the backend's caching
// headers; POST requests pass straight through. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()

	return &Client{
		http:    &http.Client{Transport: cacheTransport, Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Analyze posts {video_id, max_comments} to /analyze and decodes the result.
//
// Network failures and non-2xx statuses are returned as *model.TransportError;
// the backend's "error" field becomes the message when present. A 2xx body
// that cannot be decoded or lacks required fields wraps
// model.ErrMalformedResponse.
func (c *Client) Analyze(ctx context.Context, videoID string, maxComments int) (*model.AnalysisPayload, error) {
	body, err := json.Marshal(analyzeRequest{VideoID: videoID, MaxComments: maxComments})
	if err != nil {
		return nil, fmt.Errorf("encoding analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var wire analysisResponse
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	payload, err := wire.toPayload()
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Health fetches the backend's /health report.
func (c *Client) Health(ctx context.Context) (*driven.BackendHealth, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("creating health request: %w", err)
	}

	var wire healthResponse
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	components := wire.Components
	if components == nil {
		components = map[string]bool{}
	}

	return &driven.BackendHealth{
		Status:     wire.Status,
		Components: components,
		Timestamp:  wire.Timestamp,
	}, nil
}

// SampleData fetches the backend's canned /sample-data payload.
func (c *Client) SampleData(ctx context.Context) (*model.AnalysisPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sample-data", nil)
	if err != nil {
		return nil, fmt.Errorf("creating sample data request: %w", err)
	}

	var wire analysisResponse
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}

	payload, err := wire.toPayload()
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// do sends req and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return model.NewTransportError(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.NewTransportError(resp.StatusCode, readErrorMessage(resp.Body), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %v: %w", req.URL.Path, err, model.ErrMalformedResponse)
	}
	return nil
}

// readErrorMessage extracts the "error" field of a failed response. It
// returns "" when the body is not JSON or has no such field.
func readErrorMessage(r io.Reader) string {
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}

// --- Wire types ---

type analyzeRequest struct {
	VideoID     string `json:"video_id"`
	MaxComments int    `json:"max_comments"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
	Timestamp  string          `json:"timestamp"`
}

type analysisResponse struct {
	VideoID              string             `json:"video_id"`
	TotalComments        *int               `json:"total_comments"`
	SentimentCounts      map[string]int     `json:"sentiment_counts"`
	SentimentPercentages map[string]float64 `json:"sentiment_percentages"`
	Comments             []commentJSON      `json:"comments"`
	AnalyzedAt           string             `json:"analyzed_at"`
	Summary              string             `json:"summary"`
	Keywords             []string           `json:"keywords"`
}

type commentJSON struct {
	ID            json.RawMessage `json:"id"`
	Text          string          `json:"text"`
	Sentiment     string          `json:"sentiment"`
	Author        string          `json:"author"`
	PublishedAt   string          `json:"published_at"`
	LikeCount     int64           `json:"like_count"`
	PositiveScore *float64        `json:"positive_score"`
	NegativeScore *float64        `json:"negative_score"`
	NeutralScore  *float64        `json:"neutral_score"`
}

// toPayload maps the wire response onto the domain payload. Sentiment keys the
// backend omits count as zero; unknown keys are rejected.
func (r *analysisResponse) toPayload() (*model.AnalysisPayload, error) {
	p := &model.AnalysisPayload{
		VideoID:       r.VideoID,
		Summary:       r.Summary,
		Keywords:      r.Keywords,
		AnalyzedAt:    r.AnalyzedAt,
		TotalComments: r.TotalComments,
	}

	if r.Comments != nil {
		p.Comments = make([]model.RawComment, 0, len(r.Comments))
		for _, c := range r.Comments {
			p.Comments = append(p.Comments, c.toRawComment())
		}
	}

	if r.SentimentCounts != nil {
		var counts model.SentimentCounts
		for key, n := range r.SentimentCounts {
			switch model.Sentiment(key) {
			case model.SentimentPositive:
				counts.Positive = n
			case model.SentimentNegative:
				counts.Negative = n
			case model.SentimentNeutral:
				counts.Neutral = n
			default:
				return nil, fmt.Errorf("unknown sentiment_counts key %q: %w", key, model.ErrMalformedResponse)
			}
		}
		p.SentimentCounts = &counts
	}

	if r.SentimentPercentages != nil {
		p.SentimentPercentages = make(map[model.Sentiment]float64, len(r.SentimentPercentages))
		for key, v := range r.SentimentPercentages {
			p.SentimentPercentages[model.Sentiment(key)] = v
		}
	}

	return p, nil
}

func (c commentJSON) toRawComment() model.RawComment {
	raw := model.RawComment{
		ID:          decodeID(c.ID),
		Text:        c.Text,
		Sentiment:   model.Sentiment(c.Sentiment),
		Author:      c.Author,
		LikeCount:   c.LikeCount,
		PublishedAt: c.PublishedAt,
	}
	if c.PositiveScore != nil || c.NegativeScore != nil || c.NeutralScore != nil {
		raw.Scores = &model.SentimentScores{
			Positive: c.PositiveScore,
			Negative: c.NegativeScore,
			Neutral:  c.NeutralScore,
		}
	}
	return raw
}

// decodeID accepts comment ids sent either as JSON strings or numbers.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

