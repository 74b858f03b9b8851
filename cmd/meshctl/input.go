package main

import (
	"fmt"

	"github.com/dd0wney/cluso-commandmesh/pkg/codec"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/validation"
)

// loadSnapshot decodes a snapshot and rejects ones whose shape cannot be
// processed. Range problems are left for the pipeline to report.
func (a *app) loadSnapshot(path string) (mesh.Snapshot, error) {
	snapshot, err := codec.LoadSnapshotFile(path)
	if err != nil {
		return mesh.Snapshot{}, err
	}
	if err := validation.ValidateSnapshotShape(&snapshot); err != nil {
		return mesh.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("Snapshot loaded",
		logging.Path(path),
		logging.NetworkID(snapshot.NetworkID),
		logging.Int("nodes", len(snapshot.Nodes)),
		logging.Int("edges", len(snapshot.Edges)),
	)
	return snapshot, nil
}

// loadIntents decodes intents; an empty path means none
func (a *app) loadIntents(path string) ([]mesh.RuntimeIntent, error) {
	if path == "" {
		return nil, nil
	}

	intents, err := codec.LoadIntentsFile(path)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateIntentsShape(intents); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("Intents loaded", logging.Path(path), logging.Count(len(intents)))
	return intents, nil
}
