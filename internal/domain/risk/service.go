package risk

import (
	"context"

	"github.com/google/uuid"
)

// Service combines the Gatherer and Engine into the single entry point
// the HTTP edge calls before committing a redemption. It satisfies the
// token.RiskGate interface without token importing this package.
type Service struct {
	gatherer *Gatherer
	engine   *Engine
}

func NewService(gatherer *Gatherer, engine *Engine) *Service {
	return &Service{gatherer: gatherer, engine: engine}
}

// Evaluate gathers the account's historical signals and scores the
// pending redemption, returning the decision as a plain string
// (APPROVE/CHALLENGE/REJECT) to keep the token domain free of a
// compile-time dependency on risk's types.
func (s *Service) Evaluate(ctx context.Context, accountID uuid.UUID, amount int64, metadata map[string]interface{}) (string, []string, error) {
	riskCtx, err := s.gatherer.Gather(ctx, accountID, amount)
	if err != nil {
		return "", nil, err
	}

	var meta Metadata
	if ip, ok := metadata["ip"].(string); ok {
		meta.IP = ip
	}

	result := s.engine.Evaluate(riskCtx, meta)
	return string(result.Decision), result.Reasons, nil
}
