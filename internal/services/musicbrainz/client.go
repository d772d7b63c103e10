package musicbrainz

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

	"golang.org/x/time/rate"

	"stylus/internal/services"
)

// HTTPDoer describes the HTTP client used by the MusicBrainz service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the MusicBrainz ws/2 API. Requests are rate
// limited to one per second per MusicBrainz etiquette.
type Client struct {
	baseURL    string
	userAgent  string
	maxResults int
	timeout    time.Duration
	httpClient HTTPDoer
	limiter    *rate.Limiter
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

// WithRateLimit overrides the default one request per second limit.
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// New creates a MusicBrainz client.
func New(baseURL, userAgent string, timeoutSeconds, maxResults int, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "musicbrainz", "new", "base url required", nil)
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, services.Wrap(services.ErrConfiguration, "musicbrainz", "new", "user agent required", nil)
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		maxResults: maxResults,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchRecordings runs a fielded recording search. The strict quoted form
// runs first; when it matches nothing the permissive unquoted form is
// tried before giving up. An empty result slice is not an error.
func (c *Client) SearchRecordings(ctx context.Context, query RecordingQuery) ([]Recording, error) {
	if query.Empty() {
		return nil, services.Wrap(services.ErrMalformedResponse, "musicbrainz", "search recordings", "empty query", nil)
	}

	recordings, err := c.searchRecordings(ctx, query.Lucene(true))
	if err != nil {
		return nil, err
	}
	if len(recordings) > 0 {
		return recordings, nil
	}
	return c.searchRecordings(ctx, query.Lucene(false))
}

func (c *Client) searchRecordings(ctx context.Context, lucene string) ([]Recording, error) {
	params := url.Values{}
	params.Set("query", lucene)
	params.Set("limit", strconv.Itoa(c.maxResults))
	params.Set("fmt", "json")

	var payload recordingSearchResponse
	if err := c.get(ctx, "/recording", params, &payload); err != nil {
		return nil, err
	}
	recordings := make([]Recording, 0, len(payload.Recordings))
	for _, rec := range payload.Recordings {
		recordings = append(recordings, rec.toRecording())
	}
	return recordings, nil
}

// LookupRecording fetches a recording by MBID with credits and releases.
func (c *Client) LookupRecording(ctx context.Context, mbid string) (*Recording, error) {
	mbid = strings.TrimSpace(mbid)
	if mbid == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, "musicbrainz", "lookup recording", "empty mbid", nil)
	}
	params := url.Values{}
	params.Set("inc", "artist-credits+releases")
	params.Set("fmt", "json")

	var payload wireRecording
	if err := c.get(ctx, "/recording/"+url.PathEscape(mbid), params, &payload); err != nil {
		return nil, err
	}
	recording := payload.toRecording()
	return &recording, nil
}

// SearchReleasesByCatalog finds releases carrying the given catalog number.
func (c *Client) SearchReleasesByCatalog(ctx context.Context, catno string) ([]Release, error) {
	catno = strings.TrimSpace(catno)
	if catno == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, "musicbrainz", "search releases", "empty catalog number", nil)
	}
	params := url.Values{}
	params.Set("query", `catno:"`+strings.ReplaceAll(catno, `"`, `\"`)+`"`)
	params.Set("limit", strconv.Itoa(c.maxResults))
	params.Set("fmt", "json")

	var payload releaseSearchResponse
	if err := c.get(ctx, "/release", params, &payload); err != nil {
		return nil, err
	}
	releases := make([]Release, 0, len(payload.Releases))
	for _, rel := range payload.Releases {
		releases = append(releases, rel.toRelease())
	}
	return releases, nil
}

// ReleaseRecordings lists the recordings on a release in track order.
func (c *Client) ReleaseRecordings(ctx context.Context, releaseID string) ([]Recording, error) {
	releaseID = strings.TrimSpace(releaseID)
	if releaseID == "" {
		return nil, services.Wrap(services.ErrMalformedResponse, "musicbrainz", "release recordings", "empty release id", nil)
	}
	params := url.Values{}
	params.Set("inc", "recordings+artist-credits")
	params.Set("fmt", "json")

	var payload wireRelease
	if err := c.get(ctx, "/release/"+url.PathEscape(releaseID), params, &payload); err != nil {
		return nil, err
	}
	release := payload.toRelease()

	var recordings []Recording
	for _, medium := range payload.Media {
		for _, track := range medium.Tracks {
			recording := track.Recording.toRecording()
			if recording.Artist == "" {
				recording.Artist = joinCredits(track.ArtistCredit)
			}
			recording.Releases = []Release{release}
			recordings = append(recordings, recording)
		}
	}
	return recordings, nil
}

// get performs one rate-limited request with a single retry on transient
// failure.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	err := c.getOnce(ctx, path, params, out)
	if err == nil {
		return nil
	}
	var retryErr *retryableError
	if !errors.As(err, &retryErr) {
		return err
	}
	if err := c.getOnce(ctx, path, params, out); err != nil {
		var second *retryableError
		if errors.As(err, &second) {
			return second.err
		}
		return err
	}
	return nil
}

func (c *Client) getOnce(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return services.Wrap(services.ErrNetworkTimeout, "musicbrainz", "rate limit", "wait canceled", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrMalformedResponse, "musicbrainz", "request", "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			return &retryableError{err: services.Wrap(services.ErrNetworkTimeout, "musicbrainz", "request", fmt.Sprintf("timed out (latency=%v)", latency), nil)}
		}
		return &retryableError{err: services.Wrap(services.ErrTransient, "musicbrainz", "request", fmt.Sprintf("execute request (latency=%v)", latency), err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode >= http.StatusInternalServerError:
		return &retryableError{err: services.Wrap(services.ErrTransient, "musicbrainz", "request", fmt.Sprintf("service returned %d", resp.StatusCode), nil)}
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrMalformedResponse, "musicbrainz", "request", "not found", nil)
	case resp.StatusCode != http.StatusOK:
		return services.Wrap(services.ErrMalformedResponse, "musicbrainz", "request", fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrMalformedResponse, "musicbrainz", "request", "decode response", err)
	}
	return nil
}

type retryableError struct {
	err error
}

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }
