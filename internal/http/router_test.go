package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/scoreboard-service/internal/audience"
	"github.com/preston-bernstein/scoreboard-service/internal/broadcast"
	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/http/handlers"
	"github.com/preston-bernstein/scoreboard-service/internal/session"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
	"github.com/preston-bernstein/scoreboard-service/internal/testutil"
)

func newTestRouter(t *testing.T, origins []string) http.Handler {
	t.Helper()
	store := storage.NewMemoryStore()
	fc := testutil.NewFakeClock()
	hub := broadcast.NewHub(16, nil, nil)
	cat := catalog.New(store, catalog.WithClock(fc))
	mgr := session.NewManager(session.Deps{Store: store, Publisher: hub, Clock: fc})
	t.Cleanup(mgr.CloseAll)
	t.Cleanup(hub.Close)

	h := handlers.NewHandler(handlers.Deps{
		Catalog:        cat,
		Sessions:       mgr,
		Audience:       audience.NewResolver(cat, store, mgr, nil),
		Streams:        hub,
		AllowedOrigins: origins,
	})
	logger, _ := testutil.NewBufferLogger()
	return NewRouter(h, RouterConfig{Logger: logger, AllowedOrigins: origins})
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	cases := map[string]int{
		"/health":                  http.StatusOK,
		"/ready":                   http.StatusOK,
		"/matches":                 http.StatusOK,
		"/matches/":                http.StatusOK,
		"/matches/match-1":         http.StatusNotFound,
		"/matches/match-1/state":   http.StatusNotFound,
		"/matches/match-1/live":    http.StatusNotFound,
		"/teams":                   http.StatusOK,
		"/settings":                http.StatusOK,
		"/backup":                  http.StatusOK,
		"/analytics":               http.StatusOK,
		"/history":                 http.StatusOK,
		"/does-not-exist":          http.StatusNotFound,
		"/matches/match-1/nowhere": http.StatusNotFound,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterErrorsAreJSON(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	rr := testutil.Serve(router, http.MethodGet, "/does-not-exist", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "not found" || body["requestId"] == "" {
		t.Fatalf("unexpected error body %+v", body)
	}

	rr = testutil.Serve(router, http.MethodPut, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestRouterPlaysAMatch(t *testing.T) {
	router := newTestRouter(t, []string{"*"})

	create := `{"sport":"Basketball","teamA":{"name":"Lakers"},"teamB":{"name":"Heat"},"durationMinutes":12,"periods":4}`
	rr := testutil.Serve(router, http.MethodPost, "/matches", strings.NewReader(create))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var m catalog.Match
	testutil.DecodeJSON(t, rr, &m)

	rr = testutil.Serve(router, http.MethodPost, "/matches/"+m.ID+"/actions", strings.NewReader(`{"type":"updateScore","team":"B","delta":2}`))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(router, http.MethodGet, "/matches/"+m.ID+"/live", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"score":2`) {
		t.Fatalf("expected live score, got %s", rr.Body.String())
	}
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(t, []string{"https://board.example"})

	req := httptest.NewRequest(http.MethodOptions, "/matches", nil)
	req.Header.Set("Origin", "https://board.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://board.example" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestRouterRecoversFromPanics(t *testing.T) {
	h := handlers.NewHandler(handlers.Deps{})
	router := NewRouter(h, RouterConfig{AllowedOrigins: []string{"*"}})

	// A handler without a catalog panics; the recoverer turns it into a 500.
	rr := testutil.ServeRequest(router, httptest.NewRequest(http.MethodGet, "/matches", nil))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}
