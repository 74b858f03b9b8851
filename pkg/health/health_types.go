package health

import (
	"sync"
	"time"
)

// Status represents the health of one check or of a whole pipeline run
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Worse returns the more severe of two statuses
func Worse(a, b Status) Status {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Check is the result of one named health check
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration_ms"`
}

// CheckFunc performs a health check
type CheckFunc func() Check

type namedCheck struct {
	name string
	fn   CheckFunc
}

// HealthChecker runs registered checks and aggregates their statuses
type HealthChecker struct {
	mu     sync.RWMutex
	checks []namedCheck
	now    func() time.Time
}

// Response is the aggregated outcome of all checks; the worst status wins
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	// Order lists check names in registration order
	Order []string `json:"order"`
}
