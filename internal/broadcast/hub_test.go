package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-service/internal/history"
	"github.com/preston-bernstein/scoreboard-service/internal/metrics"
)

func message(matchID string, t int) Message {
	return Message{MatchID: matchID, Data: history.Entry{Time: t}}
}

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("expected message, channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for message")
	}
	return Message{}
}

func TestHubDeliversOnlyToMatchingSubscribers(t *testing.T) {
	hub := NewHub(4, nil, nil)
	a, cancelA := hub.Subscribe("match-1")
	defer cancelA()
	b, cancelB := hub.Subscribe("match-2")
	defer cancelB()

	if err := hub.Publish(context.Background(), message("match-1", 42)); err != nil {
		t.Fatalf("expected publish to succeed, got %v", err)
	}

	if got := receive(t, a); got.Data.Time != 42 {
		t.Fatalf("expected time 42, got %d", got.Data.Time)
	}
	select {
	case msg := <-b:
		t.Fatalf("expected no message for other match, got %+v", msg)
	default:
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	rec := metrics.NewRecorder()
	hub := NewHub(1, nil, rec)
	ch, cancel := hub.Subscribe("m")
	defer cancel()

	_ = hub.Publish(context.Background(), message("m", 1))
	_ = hub.Publish(context.Background(), message("m", 2))

	if got := receive(t, ch); got.Data.Time != 1 {
		t.Fatalf("expected first message kept, got %d", got.Data.Time)
	}
	if rec.Totals().Drops != 1 {
		t.Fatalf("expected one drop, got %d", rec.Totals().Drops)
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub(0, nil, nil)
	ch, cancel := hub.Subscribe("m")
	if hub.Subscribers("m") != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	if hub.Subscribers("m") != 0 {
		t.Fatalf("expected subscriber removed")
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub(0, nil, nil)
	ch, cancel := hub.Subscribe("m")
	hub.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed by hub close")
	}
	if err := hub.Publish(context.Background(), message("m", 0)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	late, _ := hub.Subscribe("m")
	if _, ok := <-late; ok {
		t.Fatalf("expected closed channel for late subscriber")
	}
}
