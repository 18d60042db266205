package config

import (
	"strconv"
	"time"
)

const (
	refreshIntervalVar = "REFRESH_INTERVAL"

	minRefreshInterval     = 60 * time.Second
	maxRefreshInterval     = 300 * time.Second
	defaultRefreshInterval = 120 * time.Second
)

type RefreshConfig interface {
	GetRefreshInterval() time.Duration
}

type Refresh struct{}

var _ RefreshConfig = Refresh{}

// GetRefreshInterval returns the period of the background access token
// refresh, read from REFRESH_INTERVAL (seconds) and clamped to 60-300s.
func (Refresh) GetRefreshInterval() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(refreshIntervalVar, ""))
	if err != nil || seconds <= 0 {
		return defaultRefreshInterval
	}
	interval := time.Duration(seconds) * time.Second
	if interval < minRefreshInterval {
		return minRefreshInterval
	}
	if interval > maxRefreshInterval {
		return maxRefreshInterval
	}
	return interval
}
