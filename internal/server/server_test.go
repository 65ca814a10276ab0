package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/broadcast"
	"github.com/preston-bernstein/scoreboard-service/internal/catalog"
	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/session"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
	"github.com/preston-bernstein/scoreboard-service/internal/testutil"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		AllowedOrigins: []string{"*"},
		Storage:        config.StorageConfig{Driver: config.DriverMemory},
		Metrics:        config.MetricsConfig{Enabled: false},
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	srv, err := New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("expected server, got %v", err)
	}
	t.Cleanup(srv.shutdown)
	return srv
}

func createMatch(t *testing.T, h http.Handler) catalog.Match {
	t.Helper()
	rr := testutil.ServeJSON(t, h, http.MethodPost, "/matches", testutil.BasketballConfig("Lakers", "Warriors"))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var m catalog.Match
	testutil.DecodeJSON(t, rr, &m)
	return m
}

func TestServerWiresSessionsIntoCatalog(t *testing.T) {
	srv := newTestServer(t, testConfig())
	h := srv.Handler()

	testutil.AssertStatus(t, testutil.Serve(h, http.MethodGet, "/health", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(h, http.MethodGet, "/ready", nil), http.StatusOK)

	m := createMatch(t, h)
	if m.Status != catalog.StatusUpcoming {
		t.Fatalf("expected upcoming match, got %s", m.Status)
	}

	rr := testutil.ServeJSON(t, h, http.MethodPost, "/matches/"+m.ID+"/actions", session.Command{Type: "start"})
	testutil.AssertStatus(t, rr, http.StatusOK)
	var res session.Result
	testutil.DecodeJSON(t, rr, &res)
	if !res.Accepted || !res.Snapshot.IsRunning {
		t.Fatalf("expected running match after start, got %+v", res)
	}

	rr = testutil.Serve(h, http.MethodGet, "/matches/"+m.ID, nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var synced catalog.Match
	testutil.DecodeJSON(t, rr, &synced)
	if synced.Status != catalog.StatusInProgress {
		t.Fatalf("expected catalog to follow the session, got %s", synced.Status)
	}

	rr = testutil.ServeJSON(t, h, http.MethodPost, "/matches/"+m.ID+"/actions", session.Command{Type: "updateScore", Team: "A", Delta: 3})
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(h, http.MethodGet, "/matches/"+m.ID+"/live", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var live struct {
		GameState struct {
			TeamA struct {
				Score int `json:"score"`
			} `json:"teamA"`
		} `json:"gameState"`
	}
	testutil.DecodeJSON(t, rr, &live)
	if live.GameState.TeamA.Score != 3 {
		t.Fatalf("expected live score 3, got %d", live.GameState.TeamA.Score)
	}
}

func TestServerPublishesToHub(t *testing.T) {
	srv := newTestServer(t, testConfig())
	h := srv.Handler()
	m := createMatch(t, h)

	updates, cancel := srv.broadcast.hub.Subscribe(m.ID)
	defer cancel()

	testutil.AssertStatus(t, testutil.ServeJSON(t, h, http.MethodPost, "/matches/"+m.ID+"/actions", session.Command{Type: "updateScore", Team: "B", Delta: 2}), http.StatusOK)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-updates:
			if msg.MatchID != m.ID {
				t.Fatalf("expected message for %s, got %s", m.ID, msg.MatchID)
			}
			if msg.Data.GameState.TeamB.Score == 2 {
				return
			}
		case <-deadline:
			t.Fatalf("expected score update on the hub")
		}
	}
}

func TestNewSelectsFSStore(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = config.StorageConfig{Driver: config.DriverFS, DataDir: t.TempDir()}
	srv := newTestServer(t, cfg)

	createMatch(t, srv.Handler())
	if _, err := os.Stat(filepath.Join(cfg.Storage.DataDir, storage.KeyMatches+".json")); err != nil {
		t.Fatalf("expected matches file in data dir, got %v", err)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "floppy"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestNewRequiresDatabaseURLForPostgres(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = config.DriverPostgres
	_, err := New(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestNewAppliesSportDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sports.yaml")
	body := "sportDefaults:\n  Basketball:\n    durationMinutes: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write defaults: %v", err)
	}
	cfg := testConfig()
	cfg.SportDefaultsFile = path
	srv := newTestServer(t, cfg)

	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/settings", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var st catalog.Settings
	testutil.DecodeJSON(t, rr, &st)
	if got := st.SportDefaults["Basketball"].DurationMinutes; got != 10 {
		t.Fatalf("expected basketball default of 10 minutes, got %d", got)
	}
}

func TestNewKeepsServingWhenNatsIsDown(t *testing.T) {
	orig := dialNats
	defer func() { dialNats = orig }()
	dialNats = func(broadcast.NatsConfig, *slog.Logger) (*broadcast.NatsPublisher, error) {
		return nil, errors.New("connection refused")
	}

	cfg := testConfig()
	cfg.Broadcast.NatsURL = "nats://127.0.0.1:1"
	srv := newTestServer(t, cfg)

	if srv.broadcast.nats != nil {
		t.Fatalf("expected local-only broadcasting")
	}
	if err := srv.ready(); err != nil {
		t.Fatalf("expected ready without nats, got %v", err)
	}
}

type downStore struct {
	*storage.MemoryStore
}

func (downStore) Ping(context.Context) error { return errors.New("connection reset") }

func TestReadyReportsStoreOutage(t *testing.T) {
	srv := newTestServer(t, testConfig())
	srv.store = downStore{storage.NewMemoryStore()}

	if err := srv.ready(); err == nil || !strings.Contains(err.Error(), "store unavailable") {
		t.Fatalf("expected store outage, got %v", err)
	}
	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil), http.StatusServiceUnavailable)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, testConfig())
	logger, buf := testutil.NewBufferLogger()
	srv.logger = logger
	stub := &testutil.BlockingHTTPServer{AddrVal: ":0"}
	srv.httpServer = stub

	updates, _ := srv.broadcast.hub.Subscribe("match-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after cancel")
	}

	if stub.ShutdownCalls() != 1 {
		t.Fatalf("expected one shutdown call, got %d", stub.ShutdownCalls())
	}
	if _, ok := <-updates; ok {
		t.Fatalf("expected hub subscriptions closed on shutdown")
	}
	if !strings.Contains(buf.String(), "shutdown complete") {
		t.Fatalf("expected shutdown log, got %s", buf.String())
	}
}

func TestRunReturnsListenError(t *testing.T) {
	srv := newTestServer(t, testConfig())
	stub := testutil.NewFailingHTTPServer()
	srv.httpServer = stub

	err := srv.Run(context.Background())
	if !errors.Is(err, testutil.ErrListenFailed) {
		t.Fatalf("expected listen failure, got %v", err)
	}
	if _, shutdown := stub.Calls(); shutdown != 1 {
		t.Fatalf("expected shutdown after listen failure, got %d", shutdown)
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.ShutdownTimeout = 5 * time.Millisecond
	srv := newTestServer(t, cfg)
	blocking := &testutil.BlockingHTTPServer{AddrVal: ":0", Unblock: make(chan struct{})}
	srv.httpServer = blocking

	start := time.Now()
	srv.shutdown()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("shutdown took too long: %s", elapsed)
	}
	srv.shutdown()
	if blocking.ShutdownCalls() != 1 {
		t.Fatalf("expected shutdown to run once, got %d", blocking.ShutdownCalls())
	}
}

func TestSyncCatalogIgnoresDeletedMatches(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	cat := catalog.New(storage.NewMemoryStore())
	syncFn := syncCatalog(cat, logger)

	syncFn(context.Background(), "match-404", match.NewGameState(testutil.BasketballConfig("A", "B")))
	if strings.Contains(buf.String(), logging.FieldMatchID) {
		t.Fatalf("expected missing matches to be ignored, got %s", buf.String())
	}
}
