package risk_test

import (
	"testing"

	"github.com/mwork/mwork-api/internal/domain/risk"
)

func TestEvaluateIsDeterministic(t *testing.T) {
	engine := risk.NewEngine()
	ctx := risk.Context{Velocity10m: 4, AvgAmount: 100, FailedAttempts24h: 6, LastIP: "1.1.1.1", CurrentAmount: 100}
	meta := risk.Metadata{IP: "2.2.2.2"}

	first := engine.Evaluate(ctx, meta)
	second := engine.Evaluate(ctx, meta)

	if first.Score != second.Score || first.Decision != second.Decision || len(first.Reasons) != len(second.Reasons) {
		t.Fatalf("expected identical results for identical input, got %+v and %+v", first, second)
	}
}

func TestEvaluateHighVelocityFailuresAndIPMismatchRejects(t *testing.T) {
	engine := risk.NewEngine()
	ctx := risk.Context{Velocity10m: 4, AvgAmount: 100, FailedAttempts24h: 6, LastIP: "1.1.1.1", CurrentAmount: 100}
	meta := risk.Metadata{IP: "2.2.2.2"}

	result := engine.Evaluate(ctx, meta)

	if result.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", result.Score)
	}
	if result.Decision != risk.DecisionReject {
		t.Fatalf("expected REJECT, got %v", result.Decision)
	}
}

func TestEvaluateScoreBoundaries(t *testing.T) {
	engine := risk.NewEngine()

	// elevated velocity (0.15) + moderate deviation (0.15, dev=1.5) = 0.30 exactly -> CHALLENGE.
	exact30 := engine.Evaluate(risk.Context{Velocity10m: 2, AvgAmount: 100, CurrentAmount: 250}, risk.Metadata{})
	if exact30.Score != 0.3 || exact30.Decision != risk.DecisionChallenge {
		t.Fatalf("expected score exactly 0.3 to CHALLENGE, got score=%v decision=%v", exact30.Score, exact30.Decision)
	}

	// high velocity (0.40) + significant deviation (0.30, dev=4.0) = 0.70 exactly -> CHALLENGE.
	exact70 := engine.Evaluate(risk.Context{Velocity10m: 4, AvgAmount: 100, CurrentAmount: 500}, risk.Metadata{})
	if exact70.Score != 0.7 || exact70.Decision != risk.DecisionChallenge {
		t.Fatalf("expected score exactly 0.7 to CHALLENGE, got score=%v decision=%v", exact70.Score, exact70.Decision)
	}

	// same as above plus an IP mismatch (+0.20) pushes to 0.90 -> REJECT.
	above70 := engine.Evaluate(risk.Context{Velocity10m: 4, AvgAmount: 100, CurrentAmount: 500, LastIP: "1.1.1.1"}, risk.Metadata{IP: "2.2.2.2"})
	if above70.Decision != risk.DecisionReject {
		t.Fatalf("expected score above 0.7 to REJECT, got score=%v decision=%v", above70.Score, above70.Decision)
	}
}

func TestEvaluateZeroAverageAmountContributesNoDeviation(t *testing.T) {
	engine := risk.NewEngine()
	result := engine.Evaluate(risk.Context{AvgAmount: 0, CurrentAmount: 500}, risk.Metadata{})

	if result.Score != 0 {
		t.Fatalf("expected score 0 with no prior successes, got %v", result.Score)
	}
	if result.Decision != risk.DecisionApprove {
		t.Fatalf("expected APPROVE, got %v", result.Decision)
	}
}

func TestEvaluateLowSignalApproves(t *testing.T) {
	engine := risk.NewEngine()
	result := engine.Evaluate(risk.Context{Velocity10m: 1, AvgAmount: 100, CurrentAmount: 110, FailedAttempts24h: 1}, risk.Metadata{})

	if result.Decision != risk.DecisionApprove {
		t.Fatalf("expected APPROVE for low signal, got score=%v decision=%v reasons=%v", result.Score, result.Decision, result.Reasons)
	}
}
