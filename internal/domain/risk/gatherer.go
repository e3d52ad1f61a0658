package risk

import (
	"context"

	"github.com/google/uuid"
)

// SignalSource is the narrow slice of the token store the gatherer
// reads from. Implemented by token.Repository; kept as an interface
// here so risk does not import token's mutation surface.
type SignalSource interface {
	Velocity10m(ctx context.Context, accountID uuid.UUID) (int, error)
	AvgSuccessAmount(ctx context.Context, accountID uuid.UUID) (float64, error)
	FailedAttempts24h(ctx context.Context, accountID uuid.UUID) (int, error)
	LastSuccessIP(ctx context.Context, accountID uuid.UUID) (string, error)
}

// Gatherer produces a Context by aggregating historical signals from
// the token store. This is a read-only snapshot; it need
// not be transactionally consistent with a concurrent redemption.
type Gatherer struct {
	source SignalSource
}

func NewGatherer(source SignalSource) *Gatherer {
	return &Gatherer{source: source}
}

func (g *Gatherer) Gather(ctx context.Context, accountID uuid.UUID, currentAmount int64) (Context, error) {
	velocity, err := g.source.Velocity10m(ctx, accountID)
	if err != nil {
		return Context{}, err
	}
	avgAmount, err := g.source.AvgSuccessAmount(ctx, accountID)
	if err != nil {
		return Context{}, err
	}
	failed, err := g.source.FailedAttempts24h(ctx, accountID)
	if err != nil {
		return Context{}, err
	}
	lastIP, err := g.source.LastSuccessIP(ctx, accountID)
	if err != nil {
		return Context{}, err
	}

	return Context{
		Velocity10m:       velocity,
		AvgAmount:         avgAmount,
		FailedAttempts24h: failed,
		LastIP:            lastIP,
		CurrentAmount:     currentAmount,
	}, nil
}
