package utils

import (
	"fmt"
	"time"
)

// ParseDurationString parses values like "30m" or "2h" from config or
// environment overrides.
func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid time duration '%s': %w", value, err)
	}
	return d, nil
}
