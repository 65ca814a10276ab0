package config

import "time"

// BroadcastConfig controls where live updates are published. An empty NatsURL keeps
// broadcasting in-process.
type BroadcastConfig struct {
	NatsURL       string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

func loadBroadcast() BroadcastConfig {
	return BroadcastConfig{
		NatsURL:       envOrDefault(envNatsURL, ""),
		Subject:       envOrDefault(envBroadcastSubject, defaultBroadcastSubject),
		MaxReconnects: intEnvOrDefault(envNatsMaxReconnects, defaultNatsMaxReconnects),
		ReconnectWait: durationEnvOrDefault(envNatsReconnectWait, defaultNatsReconnectWait),
	}
}
