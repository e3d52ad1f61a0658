package risk

import "math"

// Engine is a pure, stateless scorer: identical (context, metadata)
// always yields an identical Result, which is what makes risk decisions
// replayable for audit.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate implements an additive scoring table. Score
// contributions are capped at 1.0 and rounded to 2 decimals; decision
// thresholds use the strict inequalities as written.
func (e *Engine) Evaluate(ctx Context, meta Metadata) Result {
	var score float64
	var reasons []string

	switch {
	case ctx.Velocity10m > 3:
		score += 0.40
		reasons = append(reasons, "high velocity")
	case ctx.Velocity10m > 1:
		score += 0.15
		reasons = append(reasons, "elevated velocity")
	}

	if ctx.AvgAmount > 0 {
		deviation := math.Abs(float64(ctx.CurrentAmount)-ctx.AvgAmount) / ctx.AvgAmount
		switch {
		case deviation > 2.0:
			score += 0.30
			reasons = append(reasons, "significant deviation")
		case deviation > 1.0:
			score += 0.15
			reasons = append(reasons, "moderate deviation")
		}
	}

	switch {
	case ctx.FailedAttempts24h > 5:
		score += 0.50
		reasons = append(reasons, "excessive failures")
	case ctx.FailedAttempts24h > 2:
		score += 0.25
		reasons = append(reasons, "elevated failures")
	}

	if ctx.LastIP != "" && meta.IP != "" && ctx.LastIP != meta.IP {
		score += 0.20
		reasons = append(reasons, "ip mismatch")
	}

	if score > 1.0 {
		score = 1.0
	}
	score = math.Round(score*100) / 100

	var decision Decision
	switch {
	case score > 0.7:
		decision = DecisionReject
	case score >= 0.3:
		decision = DecisionChallenge
	default:
		decision = DecisionApprove
	}

	return Result{Score: score, Decision: decision, Reasons: reasons}
}
