package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
	"github.com/preston-bernstein/scoreboard-service/internal/testutil"
)

func TestNewHTTPServerAppliesTimeouts(t *testing.T) {
	handler := http.NewServeMux()
	s := newHTTPServer("1234", handler)

	if s.Addr() != ":1234" {
		t.Fatalf("expected :1234, got %s", s.Addr())
	}
	if s.Handler() != handler {
		t.Fatalf("expected handler passthrough")
	}
	if s.srv.ReadHeaderTimeout != readHeaderTimeout || s.srv.IdleTimeout != idleTimeout {
		t.Fatalf("expected server timeouts to be set")
	}
}

func TestNetHTTPServerStopsOnShutdown(t *testing.T) {
	s := newHTTPServer("0", http.NewServeMux())
	s.srv.Addr = "127.0.0.1:0"
	done := make(chan error, 1)
	go func() { done <- serve("http", s, nil) }()

	time.Sleep(50 * time.Millisecond)
	_ = s.Shutdown(context.Background())

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected closed server to be a clean exit, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("listen did not return after shutdown")
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	if err := serve("http", testutil.NewFailingHTTPServer(), logger); !errors.Is(err, testutil.ErrListenFailed) {
		t.Fatalf("expected listen failure, got %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected failure to be logged")
	}
}

func TestBuildMetricsHandlesSetupFailure(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true}}, nil)
	if rec == nil {
		t.Fatalf("expected fallback recorder on setup failure")
	}
	if srv != nil || stop != nil {
		t.Fatalf("expected no metrics server after setup failure")
	}
}

func TestBuildMetricsDisabledSkipsServer(t *testing.T) {
	rec, srv, _ := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: false}}, nil)
	if rec == nil {
		t.Fatalf("expected recorder when metrics disabled")
	}
	if srv != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
}

func TestBuildMetricsSuccessPathSetsServerAndShutdown(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
	}

	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true, Port: "9999"}}, nil)
	if rec == nil || srv == nil || stop == nil {
		t.Fatalf("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("expected metrics port, got %s", srv.Addr())
	}
}
