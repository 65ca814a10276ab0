// Package broadcast carries live match snapshots from the controlling session to audience views,
// in-process through a Hub and across processes over NATS.
package broadcast

import (
	"context"
	"errors"

	"github.com/preston-bernstein/scoreboard-service/internal/history"
)

// DefaultSubject is the channel name live updates are published under.
const DefaultSubject = "scoreboard-pro-updates"

// ErrClosed is returned when publishing through a closed transport.
var ErrClosed = errors.New("broadcast closed")

// Message is one live update: the head game state and the clock value.
type Message struct {
	MatchID string        `json:"matchId"`
	Data    history.Entry `json:"data"`
}

// Publisher delivers messages to interested audiences.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Subscriber hands out per-match message streams. The returned func cancels the subscription
// and closes the channel.
type Subscriber interface {
	Subscribe(matchID string) (<-chan Message, func())
}
