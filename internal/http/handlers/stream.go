package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/scoreboard-service/internal/broadcast"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
)

type streamConfig struct {
	writeTimeout   time.Duration
	readTimeout    time.Duration
	pingInterval   time.Duration
	maxMessageSize int64
	upgrader       websocket.Upgrader
}

func defaultStreamConfig(origins []string) streamConfig {
	return streamConfig{
		writeTimeout:   10 * time.Second,
		readTimeout:    60 * time.Second,
		pingInterval:   30 * time.Second,
		maxMessageSize: 512,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

// originChecker allows requests without an Origin header and origins listed in allowed.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// Stream upgrades to a websocket that receives the current display state followed by every
// broadcast for the match. The client only needs to answer pings.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	initial, err := h.audience.Resolve(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	conn, err := h.stream.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Warn(loggerFromContext(r, h.logger), "websocket upgrade failed", logging.FieldError, err)
		return
	}
	defer conn.Close()

	updates, cancel := h.streams.Subscribe(id)
	defer cancel()

	logger := loggerFromContext(r, h.logger)
	logging.Info(logger, "stream opened", logging.FieldMatchID, id)
	defer logging.Info(logger, "stream closed", logging.FieldMatchID, id)

	done := make(chan struct{})
	go h.readPump(conn, done)

	if !h.writeMessage(conn, broadcast.Message{MatchID: id, Data: initial}) {
		return
	}

	ticker := time.NewTicker(h.stream.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(h.stream.writeTimeout))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if !h.writeMessage(conn, msg) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.stream.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeMessage(conn *websocket.Conn, msg broadcast.Message) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(h.stream.writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		logging.Debug(h.logger, "stream write failed", logging.FieldMatchID, msg.MatchID, logging.FieldError, err)
		return false
	}
	return true
}

// readPump discards client frames and keeps the read deadline fresh on pongs. It closes done
// when the client goes away.
func (h *Handler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(h.stream.maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(h.stream.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.stream.readTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug(h.logger, "unexpected websocket close", logging.FieldError, err)
			}
			return
		}
	}
}
