package riskoverride

import (
	"context"

	"github.com/google/uuid"

	"github.com/mwork/mwork-api/internal/domain/token"
	"github.com/mwork/mwork-api/internal/pkg/password"
)

// Redeemer is the narrow slice of token.Service this package drives.
// Overriding re-runs the same locked state transition a normal redeem
// uses; it never bypasses the ACTIVE/expiry guard in the repository,
// only the risk engine's CHALLENGE gate sitting in front of it.
type Redeemer interface {
	CompleteRedeem(ctx context.Context, matchedID uuid.UUID, agentID string, metadata map[string]interface{}) (*token.RedeemResult, error)
}

type Service struct {
	redeemer     Redeemer
	repo         *Repository
	operatorHash string
}

func NewService(redeemer Redeemer, repo *Repository, operatorSecretHash string) *Service {
	return &Service{redeemer: redeemer, repo: repo, operatorHash: operatorSecretHash}
}

type OverrideParams struct {
	TokenID        uuid.UUID
	AgentID        string
	Operator       string
	OperatorSecret string
	Justification  string
}

// Apply verifies the operator credential, forces the redemption through,
// and records an Override audit row. Returns the recorded Override, which
// carries the resulting transaction ID.
func (s *Service) Apply(ctx context.Context, p OverrideParams) (*Override, error) {
	if p.Justification == "" {
		return nil, ErrNoJustification
	}
	if s.operatorHash == "" || !password.Verify(p.OperatorSecret, s.operatorHash) {
		return nil, ErrBadCredential
	}

	result, err := s.redeemer.CompleteRedeem(ctx, p.TokenID, p.AgentID, map[string]interface{}{
		"override": true,
		"operator": p.Operator,
	})
	if err != nil {
		return nil, err
	}

	override := Override{
		TokenID:       p.TokenID,
		AgentID:       p.AgentID,
		Operator:      p.Operator,
		Justification: p.Justification,
		TransactionID: result.TransactionID,
	}
	id, err := s.repo.Insert(ctx, override)
	if err != nil {
		return nil, err
	}
	override.ID = id
	return &override, nil
}
