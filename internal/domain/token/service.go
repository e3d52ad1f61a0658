package token

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mwork/mwork-api/internal/pkg/cryptoutil"
)

// maxMintAttempts bounds the collision retry budget.
const maxMintAttempts = 3

type Service struct {
	repo   *Repository
	pepper []byte
}

func NewService(repo *Repository, pepper string) *Service {
	return &Service{repo: repo, pepper: []byte(pepper)}
}

// Mint issues a new withdrawal token for accountID. ttl is the
// configured token lifetime.
func (s *Service) Mint(ctx context.Context, accountID uuid.UUID, amount int64, ttl time.Duration) (*MintResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var lastErr error
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		tok, err := cryptoutil.GenerateToken()
		if err != nil {
			return nil, err
		}
		salt, err := cryptoutil.GenerateSalt()
		if err != nil {
			return nil, err
		}
		hash := cryptoutil.Hash(s.pepper, tok.Plaintext, salt)
		expiresAt := time.Now().UTC().Add(ttl)

		id, _, err := s.repo.Insert(ctx, mintParams{
			AccountID: accountID,
			Amount:    amount,
			TokenHash: hash,
			Salt:      salt,
			Prefix:    tok.Prefix,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			if errors.Is(err, ErrTokenHashCollision) {
				lastErr = err
				continue
			}
			return nil, err
		}

		return &MintResult{
			ID:        id,
			Plaintext: tok.Plaintext,
			Amount:    amount,
			ExpiresAt: expiresAt,
		}, nil
	}

	log.Error().Str("event_type", "ERROR").Err(lastErr).Msg("mint exhausted collision retry budget")
	return nil, ErrMintExhausted
}

// Match is the non-mutating result of matching a presented plaintext
// token against the prefix candidate set, surfaced so the HTTP edge can
// gather risk context (which needs the token's account and amount)
// before committing to the redemption transaction.
type Match struct {
	TokenID   uuid.UUID
	AccountID uuid.UUID
	Amount    int64
}

// MatchToken performs the prefix scan and constant-time hash match,
// without taking any lock or
// mutating state. It writes the INVALID attempt row itself, since no
// later stage owns that outcome.
func (s *Service) MatchToken(ctx context.Context, fullToken, agentID string, metadata map[string]interface{}) (*Match, error) {
	prefix, _, err := cryptoutil.Parse(fullToken)
	if err != nil {
		return nil, ErrMalformedToken
	}

	candidates, err := s.repo.CandidatesByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		candidateHash := cryptoutil.Hash(s.pepper, fullToken, c.Salt)
		if cryptoutil.Equal(candidateHash, c.TokenHash) {
			return &Match{TokenID: c.ID, AccountID: c.AccountID, Amount: c.Amount}, nil
		}
	}

	_ = s.repo.InsertAttempt(ctx, nil, agentID, AttemptResultInvalid, metadata)
	return nil, ErrInvalid
}

// CompleteRedeem executes the locked state transition, ledger insert,
// and attempt row for a token already matched by MatchToken. The
// returned error is always the fused ErrExpiredOrUsed at this boundary,
// but the attempt row records which terminal state (USED or EXPIRED) was
// actually observed, for forensics.
func (s *Service) CompleteRedeem(ctx context.Context, matchedID uuid.UUID, agentID string, metadata map[string]interface{}) (*RedeemResult, error) {
	txn, attemptResult, err := s.repo.RedeemTx(ctx, matchedID, agentID, metadata)
	if err != nil {
		if errors.Is(err, ErrExpiredOrUsed) {
			_ = s.repo.InsertAttempt(ctx, &matchedID, agentID, attemptResult, metadata)
			return nil, ErrExpiredOrUsed
		}
		return nil, err
	}

	return &RedeemResult{
		Outcome:       RedeemSuccess,
		TokenID:       matchedID,
		TransactionID: txn.ID,
	}, nil
}
