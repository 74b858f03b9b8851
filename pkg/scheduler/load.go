// Package scheduler estimates wave load, assigns runtime intents to plan
// windows and scores how well the command graph covers the nodes intents
// target.
package scheduler

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Load factors
const (
	minRiskFactor     = 0.01
	latencyWeightUnit = 100.0
)

// WaveLoad is the estimated cost of running one wave
type WaveLoad struct {
	WaveIndex      int     `json:"waveIndex"`
	Weight         float64 `json:"weight"`
	RiskFactor     float64 `json:"riskFactor"`
	TotalLatencyMs float64 `json:"totalLatencyMs"`
	EdgeCount      int     `json:"edgeCount"`
}

// EstimateWaveLoad weighs a wave by its command count, discounted by the
// error rate of the edges it touches and increased by their latency. An edge
// touches the wave when its source or target is one of the wave's nodes.
func EstimateWaveLoad(wave mesh.Wave, edges []mesh.Edge) WaveLoad {
	inWave := make(map[mesh.NodeID]bool, len(wave.NodeIDs))
	for _, id := range wave.NodeIDs {
		inWave[id] = true
	}

	load := WaveLoad{WaveIndex: wave.Index}
	totalErrorRate := 0.0
	for _, edge := range edges {
		if !inWave[edge.From] && !inWave[edge.To] {
			continue
		}
		load.EdgeCount++
		load.TotalLatencyMs += edge.Meta.LatencyMsP95
		totalErrorRate += edge.Meta.ErrorRatePercent
	}

	avgErrorRate := 0.0
	if load.EdgeCount > 0 {
		avgErrorRate = totalErrorRate / float64(load.EdgeCount)
	}

	load.RiskFactor = mesh.MaxOf(minRiskFactor, 1-avgErrorRate/100)
	load.Weight = float64(mesh.MaxOf(1, wave.CommandCount))*load.RiskFactor + load.TotalLatencyMs/latencyWeightUnit
	return load
}

// EstimateWaveLoads runs EstimateWaveLoad for every wave, in order
func EstimateWaveLoads(waves []mesh.Wave, edges []mesh.Edge) []WaveLoad {
	loads := make([]WaveLoad, len(waves))
	for i, wave := range waves {
		loads[i] = EstimateWaveLoad(wave, edges)
	}
	return loads
}
