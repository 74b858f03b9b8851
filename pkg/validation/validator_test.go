package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh/meshtest"
)

func TestValidateSnapshotShape_Valid(t *testing.T) {
	snapshot := meshtest.ScenarioA()
	if err := ValidateSnapshotShape(&snapshot); err != nil {
		t.Errorf("Expected valid snapshot, got %v", err)
	}
}

// TestValidateSnapshotShape_RangesNotChecked ensures out-of-range values pass
// shape validation so the pipeline can report them
func TestValidateSnapshotShape_RangesNotChecked(t *testing.T) {
	snapshot := meshtest.ScenarioA()
	snapshot.Edges[0].Confidence = 1.5
	snapshot.Edges[0].To = "ghost"

	if err := ValidateSnapshotShape(&snapshot); err != nil {
		t.Errorf("Expected range and reference problems to pass, got %v", err)
	}
}

func TestValidateSnapshotShape_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*mesh.Snapshot)
		path   string
	}{
		{"missing network id", func(s *mesh.Snapshot) { s.NetworkID = "" }, "networkId"},
		{"unknown role", func(s *mesh.Snapshot) { s.Nodes[1].Role = "gateway" }, "nodes[1].role"},
		{"missing edge id", func(s *mesh.Snapshot) { s.Edges[0].ID = "" }, "edges[0].edgeId"},
		{"missing policy id", func(s *mesh.Snapshot) { s.Policies[0].ID = "" }, "policies[0].policyId"},
		{"unknown drift", func(s *mesh.Snapshot) {
			s.Drifts = []mesh.DriftObservation{{PolicyID: "p-1", Drift: "sideways"}}
		}, "drifts[0].drift"},
		{"wave ends early", func(s *mesh.Snapshot) {
			s.Waves = []mesh.Wave{{StartAt: meshtest.BaseTime, DeadlineAt: meshtest.BaseTime.Add(-time.Minute)}}
		}, "waves[0].deadlineAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := meshtest.ScenarioA()
			tt.mutate(&snapshot)

			err := ValidateSnapshotShape(&snapshot)
			if !errors.Is(err, ErrShape) {
				t.Fatalf("Expected ErrShape, got %v", err)
			}

			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("Expected *ShapeError, got %T", err)
			}
			if len(shapeErr.Fields) != 1 || shapeErr.Fields[0].Path != tt.path {
				t.Errorf("Fields = %+v, want one error at %s", shapeErr.Fields, tt.path)
			}
		})
	}
}

func TestValidateSnapshotShape_Nil(t *testing.T) {
	if err := ValidateSnapshotShape(nil); !errors.Is(err, ErrShape) {
		t.Errorf("Expected ErrShape for nil snapshot, got %v", err)
	}
}

func TestValidateIntentShape(t *testing.T) {
	intent := meshtest.Intent("i-1", mesh.PriorityHigh, []mesh.NodeID{"A"})
	if err := ValidateIntentShape(&intent); err != nil {
		t.Errorf("Expected valid intent, got %v", err)
	}

	intent.Priority = "urgent"
	intent.TargetWindow.ToUTC = intent.TargetWindow.FromUTC.Add(-time.Hour)

	err := ValidateIntentShape(&intent)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Expected *ShapeError, got %v", err)
	}
	if len(shapeErr.Fields) != 2 {
		t.Errorf("Expected 2 field errors, got %+v", shapeErr.Fields)
	}
	if !strings.Contains(err.Error(), "priority: must be one of [low medium high critical]") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !strings.Contains(err.Error(), "targetWindow.toUtc: window ends before it starts") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidateIntentsShape(t *testing.T) {
	good := meshtest.Intent("i-1", mesh.PriorityLow)
	bad := meshtest.Intent("", mesh.PriorityLow)

	if err := ValidateIntentsShape([]mesh.RuntimeIntent{good}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateIntentsShape(nil); err != nil {
		t.Errorf("Expected no error for no intents, got %v", err)
	}

	err := ValidateIntentsShape([]mesh.RuntimeIntent{good, bad})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Expected *ShapeError, got %v", err)
	}
	if shapeErr.Fields[0].Path != "intents[1].intentId" {
		t.Errorf("Path = %q, want intents[1].intentId", shapeErr.Fields[0].Path)
	}
}
