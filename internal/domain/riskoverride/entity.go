package riskoverride

import (
	"time"

	"github.com/google/uuid"
)

// Override is an evidence row recording an operator's decision to force
// a CHALLENGEd token through to redemption. It is written in addition to,
// never instead of, the token domain's own CHALLENGED attempt row.
type Override struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TokenID       uuid.UUID `db:"token_id" json:"tokenId"`
	AgentID       string    `db:"agent_id" json:"agentId"`
	Operator      string    `db:"operator" json:"operator"`
	Justification string    `db:"justification" json:"justification"`
	TransactionID uuid.UUID `db:"transaction_id" json:"transactionId"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
