package server

import (
	"bskyposts/bluesky"
	"bskyposts/feed"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeSource struct {
	resolveErr error
	feedErr    error
}

func (s *fakeSource) ResolveProfile(_ context.Context, actor string) (feed.Profile, error) {
	if s.resolveErr != nil {
		return feed.Profile{}, s.resolveErr
	}
	return feed.Profile{Did: "did:plc:" + strings.TrimSuffix(actor, ".test"), Handle: actor}, nil
}

func (s *fakeSource) GetAuthorFeed(_ context.Context, did string) ([]feed.Entry, error) {
	if s.feedErr != nil {
		return nil, s.feedErr
	}
	author := feed.Author{Did: did, Handle: strings.TrimPrefix(did, "did:plc:") + ".test"}
	return []feed.Entry{
		{
			Post: feed.Post{Uri: "at://" + did + "/app.bsky.feed.post/1", Author: author, Record: feed.Record{Text: "original"}},
		},
		{
			Post:   feed.Post{Uri: "at://did:plc:bob/app.bsky.feed.post/2", Record: feed.Record{Text: "shared"}},
			Reason: &feed.Reason{Type: feed.ReasonRepost},
		},
		{
			Post: feed.Post{
				Uri:    "at://" + did + "/app.bsky.feed.post/3",
				Author: author,
				Record: feed.Record{Text: "answer", Reply: &feed.ReplyRef{}},
			},
		},
	}, nil
}

func newTestServer(source *fakeSource) http.Handler {
	return NewServer(feed.NewFetcher(source, nil), "alice.test", 0).Handler()
}

func TestPostsJson(t *testing.T) {
	tests := []struct {
		name   string
		target string
		did    string
	}{
		{"default handle", "/posts.json", "did:plc:alice"},
		{"handle param", "/posts.json?handle=carol.test", "did:plc:carol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			var entries []feed.Entry
			if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].Post.Record.Text != "original" || entries[0].Post.Author.Did != tt.did {
				t.Errorf("unexpected entry: %+v", entries[0])
			}
		})
	}
}

func TestPostsPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>original</p>") {
		t.Errorf("missing original post in:\n%s", body)
	}
	if strings.Contains(body, "shared") || strings.Contains(body, "answer") {
		t.Errorf("reposts and replies must be filtered out:\n%s", body)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		source   *fakeSource
		target   string
		expected int
	}{
		{"unknown path", &fakeSource{}, "/nothing", http.StatusNotFound},
		{
			"account not found",
			&fakeSource{resolveErr: &bluesky.ResolutionError{Actor: "alice.test", NotFound: true}},
			"/posts.json",
			http.StatusNotFound,
		},
		{
			"invalid handle",
			&fakeSource{resolveErr: &bluesky.ResolutionError{Actor: "alice.test", Malformed: true, Err: errors.New("bad syntax")}},
			"/posts.json",
			http.StatusBadRequest,
		},
		{
			"resolution upstream failure",
			&fakeSource{resolveErr: &bluesky.ResolutionError{Actor: "alice.test", Err: errors.New("connection refused")}},
			"/posts.json",
			http.StatusBadGateway,
		},
		{
			"expired session",
			&fakeSource{resolveErr: &bluesky.ResolutionError{
				Actor: "alice.test",
				Err:   &bluesky.AuthError{Identifier: "alice.test", Err: errors.New("ExpiredToken")},
			}},
			"/",
			http.StatusBadGateway,
		},
		{
			"fetch failure",
			&fakeSource{feedErr: &bluesky.FetchError{Actor: "did:plc:alice", Err: errors.New("timeout")}},
			"/",
			http.StatusBadGateway,
		},
		{"unexpected failure", &fakeSource{feedErr: errors.New("boom")}, "/posts.json", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(tt.source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.expected {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.expected)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] == "" {
				t.Errorf("missing error message in %s", rec.Body.String())
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	handler := newTestServer(&fakeSource{})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts.json", nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "feed_entries_total") {
		t.Errorf("missing feed entries metric")
	}
}

// expiredAPI accepts logins but rejects every token afterwards.
func expiredAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/xrpc/com.atproto.server.createSession" {
		w.Write([]byte(`{"accessJwt": "access", "refreshJwt": "refresh", "did": "did:plc:alice", "handle": "alice.test"}`))
		return
	}
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte(`{"error": "ExpiredToken", "message": "Token has expired"}`))
}

func TestSessionFailuresAreBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(expiredAPI))
	defer upstream.Close()

	session, err := bluesky.Login(context.Background(), "alice.test", "secret", bluesky.Options{
		Service: upstream.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	handler := NewServer(feed.NewFetcher(session, nil), "alice.test", 0).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts.json", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expired token: got %d, want %d: %s", rec.Code, http.StatusBadGateway, rec.Body.String())
	}

	upstream.Close()
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts.json", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("closed upstream: got %d, want %d: %s", rec.Code, http.StatusBadGateway, rec.Body.String())
	}
}
