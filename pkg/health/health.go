// Package health aggregates named status checks over a pipeline run.
package health

import (
	"time"
)

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{now: time.Now}
}

// WithClock sets the clock used to stamp checks
func (hc *HealthChecker) WithClock(now func() time.Time) *HealthChecker {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.now = now
	return hc
}

// RegisterCheck registers a check. Registering a name again replaces the
// earlier check but keeps its position.
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	for i := range hc.checks {
		if hc.checks[i].name == name {
			hc.checks[i].fn = check
			return
		}
	}
	hc.checks = append(hc.checks, namedCheck{name: name, fn: check})
}

// Check runs every registered check in registration order
func (hc *HealthChecker) Check() Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: hc.now(),
		Checks:    make(map[string]Check, len(hc.checks)),
		Order:     make([]string, 0, len(hc.checks)),
	}

	for _, c := range hc.checks {
		start := hc.now()
		check := c.fn()
		check.Duration = hc.now().Sub(start)
		check.LastChecked = start
		if check.Name == "" {
			check.Name = c.name
		}

		response.Checks[c.name] = check
		response.Order = append(response.Order, c.name)
		response.Status = Worse(response.Status, check.Status)
	}

	return response
}

// Unhealthy returns the names of checks that are not healthy, in order
func (r Response) Unhealthy() []string {
	names := make([]string, 0)
	for _, name := range r.Order {
		if r.Checks[name].Status != StatusHealthy {
			names = append(names, name)
		}
	}
	return names
}
