package server

import "time"

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// Websocket streams set their own deadlines after the upgrade.
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
	readyTimeout = 2 * time.Second
)

// shutdownTimeout applies when the configuration leaves it unset.
var shutdownTimeout = 10 * time.Second
