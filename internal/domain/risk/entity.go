// Package risk implements the deterministic pre-redemption risk scorer:
// a pure engine over aggregated historical signals, plus a gatherer that
// reads those signals from the token store.
package risk

// Decision is one of the three risk outcomes over a Context.
type Decision string

const (
	DecisionApprove  Decision = "APPROVE"
	DecisionChallenge Decision = "CHALLENGE"
	DecisionReject    Decision = "REJECT"
)

// Context is the snapshot of historical signals for one accountId,
// produced by the Gatherer and consumed by Engine.Evaluate.
type Context struct {
	Velocity10m        int
	AvgAmount          float64
	FailedAttempts24h  int
	LastIP             string
	CurrentAmount       int64
}

// Metadata carries request-scoped signals supplied by the caller, such
// as the agent-observed IP.
type Metadata struct {
	IP string
}

// Result is the outcome of Engine.Evaluate: deterministic, replayable.
type Result struct {
	Score    float64
	Decision Decision
	Reasons  []string
}
