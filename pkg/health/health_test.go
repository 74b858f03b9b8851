package health

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestRegisterCheck(t *testing.T) {
	hc := NewHealthChecker()

	called := false
	hc.RegisterCheck("test", func() Check {
		called = true
		return Check{Status: StatusHealthy}
	})

	resp := hc.Check()
	if !called {
		t.Error("registered check was not called")
	}
	check, exists := resp.Checks["test"]
	if !exists {
		t.Fatal("check result not in response")
	}
	if check.Name != "test" {
		t.Errorf("check name defaulted to %q, want test", check.Name)
	}
}

func TestRegisterCheck_ReplaceKeepsOrder(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("a", func() Check { return Check{Status: StatusHealthy} })
	hc.RegisterCheck("b", func() Check { return Check{Status: StatusHealthy} })
	hc.RegisterCheck("a", func() Check { return Check{Status: StatusDegraded} })

	resp := hc.Check()
	if len(resp.Order) != 2 || resp.Order[0] != "a" || resp.Order[1] != "b" {
		t.Errorf("Order = %v, want [a b]", resp.Order)
	}
	if resp.Checks["a"].Status != StatusDegraded {
		t.Errorf("replacement check not used")
	}
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name           string
		checkStatuses  []Status
		expectedStatus Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded, StatusHealthy}, StatusDegraded},
		{"one unhealthy", []Status{StatusHealthy, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
		{"unhealthy then degraded", []Status{StatusUnhealthy, StatusDegraded}, StatusUnhealthy},
		{"no checks", []Status{}, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()

			for i, status := range tt.checkStatuses {
				s := status
				hc.RegisterCheck(string(rune('a'+i)), func() Check {
					return Check{Status: s}
				})
			}

			resp := hc.Check()
			if resp.Status != tt.expectedStatus {
				t.Errorf("expected status %s, got %s", tt.expectedStatus, resp.Status)
			}
		})
	}
}

func TestWorse(t *testing.T) {
	if Worse(StatusHealthy, StatusDegraded) != StatusDegraded {
		t.Error("degraded should beat healthy")
	}
	if Worse(StatusUnhealthy, StatusDegraded) != StatusUnhealthy {
		t.Error("unhealthy should beat degraded")
	}
	if Worse(StatusHealthy, StatusHealthy) != StatusHealthy {
		t.Error("healthy twice should stay healthy")
	}
}

func TestCheckTimestamp(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	hc := NewHealthChecker().WithClock(func() time.Time { return fixed })
	hc.RegisterCheck("test", func() Check { return Check{Status: StatusHealthy} })

	resp := hc.Check()
	if !resp.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", resp.Timestamp, fixed)
	}
	if !resp.Checks["test"].LastChecked.Equal(fixed) {
		t.Errorf("LastChecked = %v", resp.Checks["test"].LastChecked)
	}
	if resp.Checks["test"].Duration != 0 {
		t.Errorf("Duration = %v with a frozen clock", resp.Checks["test"].Duration)
	}
}

func TestUnhealthy(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("ok", func() Check { return Check{Status: StatusHealthy} })
	hc.RegisterCheck("slow", func() Check { return Check{Status: StatusDegraded} })
	hc.RegisterCheck("down", func() Check { return Check{Status: StatusUnhealthy} })

	names := hc.Check().Unhealthy()
	if len(names) != 2 || names[0] != "slow" || names[1] != "down" {
		t.Errorf("Unhealthy() = %v, want [slow down]", names)
	}
}

func TestStructureCheck(t *testing.T) {
	tests := []struct {
		name     string
		nodes    int
		errors   []string
		expected Status
	}{
		{"valid", 3, nil, StatusHealthy},
		{"errors", 3, []string{"edge e1 targets unknown node x"}, StatusDegraded},
		{"empty graph", 0, []string{"graph has no nodes"}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := StructureCheck(func() (int, []string) { return tt.nodes, tt.errors })()
			if check.Status != tt.expected {
				t.Errorf("status = %s, want %s", check.Status, tt.expected)
			}
			if check.Name != CheckStructure {
				t.Errorf("name = %s", check.Name)
			}
		})
	}
}

func TestValidationCheck(t *testing.T) {
	tests := []struct {
		name     string
		ok       bool
		score    float64
		issues   int
		expected Status
	}{
		{"ok", true, 1, 0, StatusHealthy},
		{"one issue", false, 0.92, 1, StatusDegraded},
		{"boundary", false, 0.5, 6, StatusDegraded},
		{"many issues", false, 0.2, 10, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ValidationCheck(func() (bool, float64, int) { return tt.ok, tt.score, tt.issues })()
			if check.Status != tt.expected {
				t.Errorf("status = %s, want %s", check.Status, tt.expected)
			}
			if check.Details["issues"] != tt.issues {
				t.Errorf("issues detail = %v", check.Details["issues"])
			}
		})
	}
}

func TestDriftCheck(t *testing.T) {
	tests := []struct {
		name     string
		drift    float64
		intents  int
		expected Status
	}{
		{"no intents", 5, 0, StatusHealthy},
		{"low drift", 0.3, 2, StatusHealthy},
		{"blocks acceptance", 1, 2, StatusDegraded},
		{"at warn threshold", 1.5, 1, StatusDegraded},
		{"above warn threshold", 1.6, 1, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := DriftCheck(func() (float64, int) { return tt.drift, tt.intents }, 1, 1.5)()
			if check.Status != tt.expected {
				t.Errorf("status = %s, want %s", check.Status, tt.expected)
			}
		})
	}
}

func TestSchedulingCheck(t *testing.T) {
	complete := SchedulingCheck(func() (float64, bool, int64) { return 0.5, false, 10 })()
	if complete.Status != StatusHealthy {
		t.Errorf("complete scan status = %s", complete.Status)
	}

	partial := SchedulingCheck(func() (float64, bool, int64) { return 0.5, true, 100 })()
	if partial.Status != StatusDegraded {
		t.Errorf("partial scan status = %s", partial.Status)
	}
	if partial.Details["visits"] != int64(100) {
		t.Errorf("visits detail = %v", partial.Details["visits"])
	}
}

func TestConcurrentCheckRegistration(t *testing.T) {
	hc := NewHealthChecker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hc.RegisterCheck(string(rune('A'+i)), func() Check { return Check{Status: StatusHealthy} })
			hc.Check()
		}(i)
	}
	wg.Wait()

	if got := len(hc.Check().Checks); got != 50 {
		t.Errorf("registered %d checks, want 50", got)
	}
}

func TestResponseJSONSerialization(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck(CheckDrift, DriftCheck(func() (float64, int) { return 0.2, 1 }, 1, 1.5))

	data, err := json.Marshal(hc.Check())
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if decoded["status"] != "healthy" {
		t.Errorf("status = %v", decoded["status"])
	}
	checks, ok := decoded["checks"].(map[string]any)
	if !ok || checks[CheckDrift] == nil {
		t.Errorf("drift check missing from %v", decoded["checks"])
	}
}
