package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
)

type fakeConn struct {
	published    []*nats.Msg
	failures     int
	err          error
	handler      nats.MsgHandler
	subject      string
	drained      bool
	disconnected bool
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("temporary")
	}
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, m)
	return nil
}

func (f *fakeConn) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	f.subject = subject
	f.handler = cb
	return nil, nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func (f *fakeConn) IsConnected() bool { return !f.disconnected && !f.drained }

type recordingSink struct {
	got []Message
}

func (r *recordingSink) Publish(_ context.Context, msg Message) error {
	r.got = append(r.got, msg)
	return nil
}

func newTestPublisher(conn *fakeConn) *NatsPublisher {
	p := newNatsPublisher(conn, "", nil)
	p.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}
	return p
}

func TestNatsPublishEncodesMessage(t *testing.T) {
	conn := &fakeConn{}
	p := newTestPublisher(conn)

	if err := p.Publish(context.Background(), message("match-7", 30)); err != nil {
		t.Fatalf("expected publish to succeed, got %v", err)
	}
	if len(conn.published) != 1 {
		t.Fatalf("expected one published message, got %d", len(conn.published))
	}
	out := conn.published[0]
	if out.Subject != DefaultSubject {
		t.Fatalf("expected subject %s, got %s", DefaultSubject, out.Subject)
	}
	if out.Header.Get(headerMatchID) != "match-7" || out.Header.Get(headerOrigin) == "" {
		t.Fatalf("unexpected headers %v", out.Header)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out.Data, &raw); err != nil {
		t.Fatalf("expected json payload, got %v", err)
	}
	if string(raw["matchId"]) != `"match-7"` {
		t.Fatalf("expected matchId field, got %s", raw["matchId"])
	}
	if _, ok := raw["data"]; !ok {
		t.Fatalf("expected data field in %s", out.Data)
	}
}

func TestNatsPublishRetriesTransientErrors(t *testing.T) {
	conn := &fakeConn{failures: 2}
	p := newTestPublisher(conn)

	if err := p.Publish(context.Background(), message("m", 1)); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(conn.published) != 1 {
		t.Fatalf("expected message published after retries")
	}
}

func TestNatsPublishStopsOnClosedConnection(t *testing.T) {
	conn := &fakeConn{err: nats.ErrConnectionClosed}
	p := newTestPublisher(conn)

	if err := p.Publish(context.Background(), message("m", 1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNatsRelaySkipsOwnMessages(t *testing.T) {
	conn := &fakeConn{}
	p := newTestPublisher(conn)
	sink := &recordingSink{}

	stop, err := p.Relay(context.Background(), sink)
	if err != nil {
		t.Fatalf("expected relay to subscribe, got %v", err)
	}
	defer stop()

	_ = p.Publish(context.Background(), message("m", 5))
	conn.handler(conn.published[0])
	if len(sink.got) != 0 {
		t.Fatalf("expected own message to be skipped")
	}

	data, _ := json.Marshal(message("m", 9))
	conn.handler(&nats.Msg{Data: data, Header: nats.Header{headerOrigin: []string{"other"}}})
	conn.handler(&nats.Msg{Data: []byte("garbage")})
	if len(sink.got) != 1 || sink.got[0].Data.Time != 9 {
		t.Fatalf("expected foreign message relayed, got %+v", sink.got)
	}

	if err := p.Close(); err != nil || !conn.drained {
		t.Fatalf("expected close to drain, err=%v", err)
	}
}

func TestNatsReadyFollowsConnection(t *testing.T) {
	conn := &fakeConn{}
	p := newNatsPublisher(conn, "", nil)
	if err := p.Ready(); err != nil {
		t.Fatalf("expected ready, got %v", err)
	}
	conn.disconnected = true
	if err := p.Ready(); !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
}
