package acoustid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stylus/internal/services"
)

// HTTPDoer describes the HTTP client used by the AcoustID service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Candidate is the best recording AcoustID offered for a fingerprint.
type Candidate struct {
	Score       float64
	TrackID     string
	RecordingID string
	Title       string
	Artist      string
	Album       string
	ReleaseID   string
	Date        string
}

// Client provides access to the AcoustID lookup API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an AcoustID client.
func New(apiKey, baseURL string, timeoutSeconds int, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acoustid", "new", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acoustid", "new", "base url required", nil)
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup submits a fingerprint and duration and returns the best candidate.
// A response with zero results yields (nil, nil): no match is not an error.
// Transient network failures are retried once.
func (c *Client) Lookup(ctx context.Context, fingerprint string, durationSeconds float64) (*Candidate, error) {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, "acoustid", "lookup", "empty fingerprint", nil)
	}

	params := url.Values{}
	params.Set("client", c.apiKey)
	params.Set("fingerprint", fingerprint)
	params.Set("duration", strconv.Itoa(int(durationSeconds+0.5)))
	params.Set("meta", "recordings releases")
	params.Set("format", "json")
	body := params.Encode()

	payload, err := c.post(ctx, body)
	if err != nil {
		var retryErr *retryableError
		if !errors.As(err, &retryErr) {
			return nil, err
		}
		payload, err = c.post(ctx, body)
		if err != nil {
			var second *retryableError
			if errors.As(err, &second) {
				return nil, second.err
			}
			return nil, err
		}
	}

	if !strings.EqualFold(payload.Status, "ok") {
		message := payload.Error.Message
		if message == "" {
			message = "status " + payload.Status
		}
		return nil, services.Wrap(services.ErrMalformedResponse, "acoustid", "lookup", message, nil)
	}
	return bestCandidate(payload.Results), nil
}

// retryableError marks failures worth one more attempt.
type retryableError struct {
	err error
}

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }

func (c *Client) post(ctx context.Context, body string) (*lookupResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, strings.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, "acoustid", "lookup", "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			return nil, &retryableError{err: services.Wrap(services.ErrNetworkTimeout, "acoustid", "lookup", fmt.Sprintf("timed out (latency=%v)", latency), nil)}
		}
		return nil, &retryableError{err: services.Wrap(services.ErrTransient, "acoustid", "lookup", fmt.Sprintf("execute request (latency=%v)", latency), err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &retryableError{err: services.Wrap(services.ErrTransient, "acoustid", "lookup", fmt.Sprintf("service returned %d", resp.StatusCode), nil)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrMalformedResponse, "acoustid", "lookup", fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrMalformedResponse, "acoustid", "lookup", "decode response", err)
	}
	return &payload, nil
}

// bestCandidate picks the recording with the maximum service score; ties
// prefer entries with complete metadata over bare scores.
func bestCandidate(results []lookupResult) *Candidate {
	var best *Candidate
	for _, result := range results {
		score := clamp(result.Score)
		if len(result.Recordings) == 0 {
			candidate := &Candidate{Score: score, TrackID: result.ID}
			if better(candidate, best) {
				best = candidate
			}
			continue
		}
		for _, rec := range result.Recordings {
			candidate := &Candidate{
				Score:       score,
				TrackID:     result.ID,
				RecordingID: rec.ID,
				Title:       rec.Title,
				Artist:      joinArtists(rec.Artists),
			}
			if len(rec.Releases) > 0 {
				release := rec.Releases[0]
				candidate.Album = release.Title
				candidate.ReleaseID = release.ID
				candidate.Date = release.Date.String()
			}
			if better(candidate, best) {
				best = candidate
			}
		}
	}
	return best
}

func better(candidate, current *Candidate) bool {
	if current == nil {
		return true
	}
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	return candidate.complete() && !current.complete()
}

func (c *Candidate) complete() bool {
	return c.Title != "" && c.Artist != "" && c.Album != ""
}

func joinArtists(artists []lookupArtist) string {
	var b strings.Builder
	for _, artist := range artists {
		b.WriteString(artist.Name)
		b.WriteString(artist.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
