package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration-typed config fields (fda.timeout, notify.retry_base,
// notify.retry_max_delay, storage.busy_timeout) arrive as Go duration
// strings so they read naturally in JSON: "500ms", "15s", "1m".

// ParseDurationField parses one duration field. An empty value is not an
// error: it parses to 0 so the consumer can substitute its own default.
// Negative durations are rejected; none of recallbot's knobs can mean
// anything backwards in time.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with a fallback for the
// empty (or explicit "0") case.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
