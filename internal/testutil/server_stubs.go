package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// StubHTTPServer returns the configured errors immediately and counts calls.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error

	mu            sync.Mutex
	listenCalls   int
	shutdownCalls int
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenCalls++
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownCalls++
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string          { return s.AddrVal }
func (s *StubHTTPServer) Handler() http.Handler { return s.HandlerVal }

// Calls reports how often ListenAndServe and Shutdown ran.
func (s *StubHTTPServer) Calls() (listen, shutdown int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenCalls, s.shutdownCalls
}

// ErrListenFailed is returned by NewFailingHTTPServer.
var ErrListenFailed = errors.New("listen failure")

// NewFailingHTTPServer returns a server whose listener fails at once.
func NewFailingHTTPServer() *StubHTTPServer {
	return &StubHTTPServer{AddrVal: ":0", HandlerVal: http.NewServeMux(), ListenErr: ErrListenFailed}
}

// BlockingHTTPServer serves until Shutdown, then returns http.ErrServerClosed like a real
// server. When Unblock is set, Shutdown also waits for it to close or for the context to end.
type BlockingHTTPServer struct {
	AddrVal    string
	HandlerVal http.Handler
	Unblock    chan struct{}

	once          sync.Once
	stopped       chan struct{}
	mu            sync.Mutex
	shutdownCalls int
}

func (b *BlockingHTTPServer) init() {
	b.once.Do(func() { b.stopped = make(chan struct{}) })
}

func (b *BlockingHTTPServer) ListenAndServe() error {
	b.init()
	<-b.stopped
	return http.ErrServerClosed
}

func (b *BlockingHTTPServer) Shutdown(ctx context.Context) error {
	b.init()
	b.mu.Lock()
	b.shutdownCalls++
	if b.shutdownCalls == 1 {
		close(b.stopped)
	}
	b.mu.Unlock()

	if b.Unblock == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.Unblock:
		return nil
	}
}

func (b *BlockingHTTPServer) Addr() string          { return b.AddrVal }
func (b *BlockingHTTPServer) Handler() http.Handler { return b.HandlerVal }

// ShutdownCalls reports how often Shutdown ran.
func (b *BlockingHTTPServer) ShutdownCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shutdownCalls
}
