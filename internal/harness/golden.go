package harness

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/avnishkumar80/DynamicCPQ/internal/ir"
)

// snapshot is the serialized form of a scenario run. Field order is the
// file's diff layout; keep verdicts before violation details.
type snapshot struct {
	Scenario      string              `json:"scenario"`
	Agreement     bool                `json:"agreement"`
	Deterministic ir.ValidationResult `json:"deterministic"`
	Solver        ir.ValidationResult `json:"solver"`
}

// RunWithGolden executes a scenario and compares both verdicts against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s Scenario) Result {
	t.Helper()

	result := Run(context.Background(), s)

	snap := snapshot{
		Scenario:      s.Name,
		Agreement:     result.Agree(),
		Deterministic: result.Deterministic,
		Solver:        result.Solver,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("marshaling snapshot: %v", err)
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)

	return result
}
