package token

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

// Token is a minted withdrawal token row. The plaintext is never
// persisted; only TokenHash and Salt live in the row.
type Token struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Amount    int64     `db:"amount" json:"amount"`
	TokenHash []byte    `db:"token_hash" json:"-"`
	Salt      []byte    `db:"salt" json:"-"`
	Prefix    string    `db:"prefix" json:"-"`
	Status    Status    `db:"status" json:"status"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type TransactionType string

const (
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
)

// Transaction is an immutable withdrawal ledger row. At most one exists
// per TokenID.
type Transaction struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	AccountID uuid.UUID         `db:"account_id" json:"account_id"`
	TokenID   uuid.UUID         `db:"token_id" json:"token_id"`
	Type      TransactionType   `db:"type" json:"type"`
	Amount    int64             `db:"amount" json:"amount"`
	Status    TransactionStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

type AttemptResult string

const (
	AttemptResultSuccess        AttemptResult = "SUCCESS"
	AttemptResultInvalid        AttemptResult = "INVALID"
	AttemptResultUsed           AttemptResult = "USED"
	AttemptResultExpired        AttemptResult = "EXPIRED"
	AttemptResultRejectedByRisk AttemptResult = "REJECTED_BY_RISK"
	AttemptResultChallenged     AttemptResult = "CHALLENGED"
)

// RedemptionAttempt is an evidence row recording every redemption
// outcome, terminal or not. Exactly one is written per attempt.
type RedemptionAttempt struct {
	ID        uuid.UUID              `db:"id" json:"id"`
	TokenID   *uuid.UUID             `db:"token_id" json:"token_id,omitempty"`
	AgentID   string                 `db:"agent_id" json:"agent_id"`
	Result    AttemptResult          `db:"result" json:"result"`
	Metadata  map[string]interface{} `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// MintResult is returned by Service.Mint. Plaintext is surfaced to the
// caller exactly once.
type MintResult struct {
	ID        uuid.UUID
	Plaintext string
	Amount    int64
	ExpiresAt time.Time
}

// RedeemOutcome is the fused client-facing result of a redeem call.
type RedeemOutcome string

const (
	RedeemSuccess        RedeemOutcome = "SUCCESS"
	RedeemInvalid        RedeemOutcome = "INVALID"
	RedeemExpiredOrUsed  RedeemOutcome = "EXPIRED_OR_USED"
)

// RedeemResult is returned by Service.CompleteRedeem on SUCCESS.
type RedeemResult struct {
	Outcome       RedeemOutcome
	TokenID       uuid.UUID
	TransactionID uuid.UUID
}
