package scheduler

import (
	"sort"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Command budget per scheduled wave
const (
	criticalCommandBoost = 12
	defaultCommandBoost  = 6
	minCommands          = 1
	maxCommands          = 64
)

// ScheduleWaveWindows assigns intents to plan windows round-robin.
//
// Windows and intents are both ordered by start time (stable, so equal
// starts keep input order). Intent i lands in window i % len(windows) and
// becomes one wave over the intent's distinct node ids. Without windows no
// waves are produced.
func ScheduleWaveWindows(windows []mesh.PlanWindow, intents []mesh.RuntimeIntent) []mesh.Wave {
	waves := make([]mesh.Wave, 0, len(intents))
	if len(windows) == 0 {
		return waves
	}

	sortedWindows := make([]mesh.PlanWindow, len(windows))
	copy(sortedWindows, windows)
	sort.SliceStable(sortedWindows, func(i, j int) bool {
		return sortedWindows[i].FromUTC.Before(sortedWindows[j].FromUTC)
	})

	sortedIntents := make([]mesh.RuntimeIntent, len(intents))
	copy(sortedIntents, intents)
	sort.SliceStable(sortedIntents, func(i, j int) bool {
		return sortedIntents[i].TargetWindow.FromUTC.Before(sortedIntents[j].TargetWindow.FromUTC)
	})

	for i, intent := range sortedIntents {
		window := sortedWindows[i%len(sortedWindows)]
		waves = append(waves, mesh.Wave{
			Index:        i,
			NodeIDs:      intent.NodeIDs(),
			StartAt:      window.FromUTC,
			DeadlineAt:   window.ToUTC,
			CommandCount: CommandBudget(intent),
			ReadinessWindow: mesh.ReadinessWindow{
				From: window.FromUTC,
				To:   window.ToUTC,
			},
		})
	}

	return waves
}

// CommandBudget is the number of commands a scheduled wave gets for intent
func CommandBudget(intent mesh.RuntimeIntent) int {
	boost := defaultCommandBoost
	if intent.Priority == mesh.PriorityCritical {
		boost = criticalCommandBoost
	}
	return mesh.Clamp(len(intent.Waves)+boost, minCommands, maxCommands)
}
