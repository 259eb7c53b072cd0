// Package ratingservice talks to the competitive rating service over its
// REST API. The client maps throttling and outages to the sync module's
// transient error so callers can retry with backoff.
package ratingservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultChunkSize = 300
)

// Source fetches ratings from the upstream service. Both the plain client
// and the caching decorator satisfy it.
type Source interface {
	GetCurrentRatings(ctx context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error)
	GetRatingHistory(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error)
}

// OAuthConfig holds the client-credentials grant used when the rating
// service requires authentication.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// Config configures the rating service client.
type Config struct {
	BaseURL string
	// Timeout bounds each HTTP request. Zero means the default.
	Timeout time.Duration
	// ChunkSize caps how many handles one batch request carries. Zero means
	// the default.
	ChunkSize int
	// OAuth enables client-credentials authentication when set.
	OAuth *OAuthConfig
}

// Client is the REST client for the rating service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	chunkSize  int
	logger     *slog.Logger
}

// New creates a new rating service client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.OAuth != nil {
		grant := clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = grant.Client(tokenCtx)
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		chunkSize:  chunkSize,
		logger:     logger,
	}
}

type ratingEntry struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating"`
	MaxRating *int   `json:"max_rating"`
}

type ratingsResponse struct {
	Ratings []ratingEntry `json:"ratings"`
}

type historyPoint struct {
	Rating int       `json:"rating"`
	At     time.Time `json:"at"`
}

type historyResponse struct {
	Points []historyPoint `json:"points"`
}

// GetCurrentRatings fetches the snapshots of the given handles in chunked
// batch requests. Handles the service does not know are absent from the
// result; the returned map is keyed by normalized handle.
func (c *Client) GetCurrentRatings(ctx context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error) {
	out := make(map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, len(handles))
	for start := 0; start < len(handles); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(handles) {
			end = len(handles)
		}
		if err := c.fetchRatings(ctx, handles[start:end], out); err != nil {
			return nil, err
		}
	}
	c.logger.DebugContext(ctx, "Fetched rating snapshots",
		slog.Int("requested", len(handles)), slog.Int("known", len(out)))
	return out, nil
}

func (c *Client) fetchRatings(ctx context.Context, handles []ranksyncdomain.Handle, out map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot) error {
	raw := make([]string, len(handles))
	for i, h := range handles {
		raw[i] = string(h)
	}

	query := url.Values{}
	query.Set("handles", strings.Join(raw, ","))
	endpoint := c.baseURL + "/v1/ratings?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build ratings request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ranksyncdomain.TransientError{Op: "rating lookup", Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus("rating lookup", resp.StatusCode); err != nil {
		return err
	}

	var body ratingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode ratings response: %w", err)
	}

	for _, entry := range body.Ratings {
		normalized := ranksyncdomain.NormalizeHandle(ranksyncdomain.Handle(entry.Handle))
		out[normalized] = ranksyncdomain.RatingSnapshot{
			Handle:         normalized,
			CurrentRating:  entry.Rating,
			BestRatingEver: entry.MaxRating,
		}
	}
	return nil
}

// GetRatingHistory fetches the full rated history of one handle, oldest
// first as the service reports it. An unknown handle yields an empty history.
func (c *Client) GetRatingHistory(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error) {
	endpoint := c.baseURL + "/v1/ratings/" + url.PathEscape(string(handle)) + "/history"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ranksyncdomain.TransientError{Op: "rating history", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := classifyStatus("rating history", resp.StatusCode); err != nil {
		return nil, err
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}

	points := make([]ranksyncdomain.RatingPoint, len(body.Points))
	for i, p := range body.Points {
		points[i] = ranksyncdomain.RatingPoint{Rating: p.Rating, At: p.At}
	}
	return points, nil
}

// classifyStatus maps an HTTP status to the sync module's error taxonomy:
// throttling and server failures are transient, everything else non-2xx is a
// permanent request error.
func classifyStatus(op string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return &ranksyncdomain.TransientError{Op: op, Err: fmt.Errorf("status %d", status)}
	default:
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
}

var _ Source = (*Client)(nil)
