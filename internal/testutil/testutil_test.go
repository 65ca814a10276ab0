package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	fc := NewFakeClock()
	if !fc.Now().Equal(Epoch) {
		t.Fatalf("expected fake clock at %v, got %v", Epoch, fc.Now())
	}
	fc.Advance(time.Minute)
	if got := fc.Since(Epoch); got != time.Minute {
		t.Fatalf("expected one minute elapsed, got %s", got)
	}
}

func TestFixtureConfigsAreValid(t *testing.T) {
	for name, cfg := range map[string]interface{ Validate() error }{
		"basketball": BasketballConfig("Lakers", "Warriors"),
		"volleyball": VolleyballConfig("Brazil", "USA"),
	} {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("%s: expected valid config, got %v", name, err)
		}
	}
}

func TestServeJSONEncodesBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		_, _ = io.Copy(w, r.Body)
	})
	rr := ServeJSON(t, handler, http.MethodPut, "/echo", map[string]int{"n": 3})
	AssertStatus(t, rr, http.StatusOK)
	var body map[string]int
	DecodeJSON(t, rr, &body)
	if body["n"] != 3 {
		t.Fatalf("expected echoed body, got %v", body)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestStubHTTPServer(t *testing.T) {
	sh := &StubHTTPServer{ListenErr: errors.New("boom"), ShutdownErr: errors.New("down"), AddrVal: ":1"}
	if err := sh.ListenAndServe(); !errors.Is(err, sh.ListenErr) {
		t.Fatalf("expected listen error, got %v", err)
	}
	if err := sh.Shutdown(context.Background()); !errors.Is(err, sh.ShutdownErr) {
		t.Fatalf("expected shutdown error, got %v", err)
	}
	if listen, shutdown := sh.Calls(); listen != 1 || shutdown != 1 {
		t.Fatalf("expected one call each, got %d/%d", listen, shutdown)
	}
	if sh.Addr() != ":1" {
		t.Fatalf("expected addr passthrough")
	}

	failing := NewFailingHTTPServer()
	if err := failing.ListenAndServe(); !errors.Is(err, ErrListenFailed) {
		t.Fatalf("expected ErrListenFailed, got %v", err)
	}
}

func TestBlockingHTTPServerStopsOnShutdown(t *testing.T) {
	b := &BlockingHTTPServer{}
	done := make(chan error, 1)
	go func() { done <- b.ListenAndServe() }()

	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("listen did not return after shutdown")
	}
	if b.ShutdownCalls() != 1 {
		t.Fatalf("expected one shutdown call, got %d", b.ShutdownCalls())
	}
}

func TestBlockingHTTPServerHonorsShutdownDeadline(t *testing.T) {
	b := &BlockingHTTPServer{Unblock: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := b.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestEventually(t *testing.T) {
	calls := 0
	Eventually(t, time.Second, func() bool {
		calls++
		return calls == 3
	}, "third call")
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}
