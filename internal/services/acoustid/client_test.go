package acoustid_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"stylus/internal/services"
	"stylus/internal/services/acoustid"
)

type stubDoer struct {
	responses []stubResponse
	calls     int
	bodies    []string
}

type stubResponse struct {
	status int
	body   string
	err    error
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		s.bodies = append(s.bodies, string(data))
	}
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	stub := s.responses[idx]
	if stub.err != nil {
		return nil, stub.err
	}
	return &http.Response{
		StatusCode: stub.status,
		Body:       io.NopCloser(strings.NewReader(stub.body)),
	}, nil
}

func newClient(t *testing.T, doer *stubDoer) *acoustid.Client {
	t.Helper()
	client, err := acoustid.New("key", "https://api.example.org/v2/lookup", 10, acoustid.WithHTTPClient(doer))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestLookupSelectsHighestScore(t *testing.T) {
	body := `{"status":"ok","results":[
		{"id":"t1","score":0.72,"recordings":[{"id":"r1","title":"One","artists":[{"name":"A"}]}]},
		{"id":"t2","score":0.98,"recordings":[{"id":"r2","title":"Two","artists":[{"name":"B"}],"releases":[{"id":"rel2","title":"Album Two","date":{"year":1984,"month":6}}]}]}
	]}`
	doer := &stubDoer{responses: []stubResponse{{status: 200, body: body}}}

	candidate, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 213.4)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if candidate == nil {
		t.Fatal("expected a candidate")
	}
	if candidate.RecordingID != "r2" || candidate.TrackID != "t2" {
		t.Fatalf("unexpected candidate: %+v", candidate)
	}
	if candidate.Album != "Album Two" || candidate.Date != "1984-06" {
		t.Fatalf("unexpected release data: %+v", candidate)
	}
	if candidate.Score != 0.98 {
		t.Fatalf("unexpected score: %v", candidate.Score)
	}
	if len(doer.bodies) != 1 || !strings.Contains(doer.bodies[0], "duration=213") {
		t.Fatalf("expected rounded duration in request, got %v", doer.bodies)
	}
}

func TestLookupTiePrefersCompleteMetadata(t *testing.T) {
	body := `{"status":"ok","results":[
		{"id":"t1","score":0.9,"recordings":[{"id":"r1","title":"Bare","artists":[{"name":"A"}]}]},
		{"id":"t2","score":0.9,"recordings":[{"id":"r2","title":"Full","artists":[{"name":"B"}],"releases":[{"id":"rel","title":"Album"}]}]}
	]}`
	doer := &stubDoer{responses: []stubResponse{{status: 200, body: body}}}

	candidate, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 100)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if candidate.RecordingID != "r2" {
		t.Fatalf("expected complete candidate to win tie, got %+v", candidate)
	}
}

func TestLookupZeroResultsIsNotAnError(t *testing.T) {
	doer := &stubDoer{responses: []stubResponse{{status: 200, body: `{"status":"ok","results":[]}`}}}

	candidate, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 100)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if candidate != nil {
		t.Fatalf("expected nil candidate, got %+v", candidate)
	}
}

func TestLookupRetriesTransientFailure(t *testing.T) {
	body := `{"status":"ok","results":[{"id":"t1","score":0.8,"recordings":[{"id":"r1","title":"One","artists":[{"name":"A"}]}]}]}`
	doer := &stubDoer{responses: []stubResponse{
		{status: 503, body: "unavailable"},
		{status: 200, body: body},
	}}

	candidate, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 100)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if candidate == nil || candidate.RecordingID != "r1" {
		t.Fatalf("expected candidate after retry, got %+v", candidate)
	}
	if doer.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", doer.calls)
	}
}

func TestLookupGivesUpAfterSecondFailure(t *testing.T) {
	doer := &stubDoer{responses: []stubResponse{{err: errors.New("connection refused")}}}

	_, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 100)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if doer.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", doer.calls)
	}
}

func TestLookupServiceError(t *testing.T) {
	doer := &stubDoer{responses: []stubResponse{{status: 200, body: `{"status":"error","error":{"code":4,"message":"invalid API key"}}`}}}

	_, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 100)
	if !errors.Is(err, services.ErrMalformedResponse) {
		t.Fatalf("expected malformed response marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid API key") {
		t.Fatalf("expected service message in error, got %v", err)
	}
	if doer.calls != 1 {
		t.Fatalf("expected no retry for service errors, got %d attempts", doer.calls)
	}
}

func TestLookupClampsScore(t *testing.T) {
	body := `{"status":"ok","results":[{"id":"t1","score":1.7,"recordings":[{"id":"r1","title":"One","artists":[{"name":"A"}]}]}]}`
	doer := &stubDoer{responses: []stubResponse{{status: 200, body: body}}}

	candidate, err := newClient(t, doer).Lookup(context.Background(), "FINGER", 100)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if candidate.Score != 1.0 {
		t.Fatalf("expected clamped score 1.0, got %v", candidate.Score)
	}
}
