package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// rawEnv returns the trimmed value of key. Blank values count as unset.
func rawEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func envOrDefault(key, defaultValue string) string {
	if v, ok := rawEnv(key); ok {
		return v
	}
	return defaultValue
}

// parsedEnvOrDefault returns parse(value) for a set key, or defaultValue when the key is
// unset, fails to parse, or is rejected by valid.
func parsedEnvOrDefault[T any](key string, defaultValue T, parse func(string) (T, error), valid func(T) bool) T {
	raw, ok := rawEnv(key)
	if !ok {
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil || (valid != nil && !valid(v)) {
		return defaultValue
	}
	return v
}

func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	return parsedEnvOrDefault(key, defaultValue, time.ParseDuration, func(d time.Duration) bool { return d > 0 })
}

// intEnvOrDefault accepts zero so counts such as NATS_MAX_RECONNECTS can disable a feature.
func intEnvOrDefault(key string, defaultValue int) int {
	return parsedEnvOrDefault(key, defaultValue, strconv.Atoi, func(n int) bool { return n >= 0 })
}

func boolEnvOrDefault(key string, defaultValue bool) bool {
	return parsedEnvOrDefault(key, defaultValue, parseBool, nil)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

// listEnvOrDefault splits a comma-separated value, dropping blank entries.
func listEnvOrDefault(key string, defaultValue []string) []string {
	raw, ok := rawEnv(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
