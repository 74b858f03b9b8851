package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh/meshtest"
)

func window(offset time.Duration) mesh.PlanWindow {
	from := meshtest.BaseTime.Add(offset)
	return mesh.PlanWindow{FromUTC: from, ToUTC: from.Add(30 * time.Minute)}
}

func TestScheduleWaveWindows_RoundRobin(t *testing.T) {
	late := window(2 * time.Hour)
	early := window(0)

	intents := make([]mesh.RuntimeIntent, 3)
	for i := range intents {
		intents[i] = meshtest.Intent(mesh.IntentID("i-"+string(rune('a'+i))), mesh.PriorityLow, []mesh.NodeID{"A", "B", "A"})
		intents[i].TargetWindow.FromUTC = meshtest.BaseTime.Add(time.Duration(2-i) * time.Minute)
	}

	waves := ScheduleWaveWindows([]mesh.PlanWindow{late, early}, intents)
	require.Len(t, waves, 3)

	// intents sorted by start: i-c, i-b, i-a; windows sorted: early, late
	assert.Equal(t, early.FromUTC, waves[0].StartAt)
	assert.Equal(t, late.FromUTC, waves[1].StartAt)
	assert.Equal(t, early.FromUTC, waves[2].StartAt)
	assert.Equal(t, early.ToUTC, waves[2].DeadlineAt)
	assert.Equal(t, early.FromUTC, waves[2].ReadinessWindow.From)

	for i, wave := range waves {
		assert.Equal(t, i, wave.Index)
		assert.Equal(t, []mesh.NodeID{"A", "B"}, wave.NodeIDs)
		assert.Equal(t, 7, wave.CommandCount, "one intent wave plus the default boost")
	}
}

func TestScheduleWaveWindows_NoWindows(t *testing.T) {
	intents := []mesh.RuntimeIntent{meshtest.Intent("i-1", mesh.PriorityHigh, []mesh.NodeID{"A"})}

	waves := ScheduleWaveWindows(nil, intents)
	assert.NotNil(t, waves)
	assert.Empty(t, waves)
}

func TestCommandBudget(t *testing.T) {
	tests := []struct {
		name     string
		priority mesh.Priority
		waves    int
		expected int
	}{
		{"low without waves", mesh.PriorityLow, 0, 6},
		{"critical without waves", mesh.PriorityCritical, 0, 12},
		{"critical with waves", mesh.PriorityCritical, 3, 15},
		{"capped", mesh.PriorityHigh, 100, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := mesh.RuntimeIntent{Priority: tt.priority, Waves: make([]mesh.Wave, tt.waves)}
			assert.Equal(t, tt.expected, CommandBudget(intent))
		})
	}
}
