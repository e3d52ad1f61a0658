package riskoverride

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists an override audit row. Called after the underlying
// redemption has already committed, so failure here never undoes a
// successful withdrawal — it only loses an audit trail entry. The error
// is returned to the caller; the handler answers 500 and logs it as an
// ERROR event.
func (r *Repository) Insert(ctx context.Context, o Override) (uuid.UUID, error) {
	id := uuid.New()
	createdAt := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO risk_overrides (id, token_id, agent_id, operator, justification, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, o.TokenID, o.AgentID, o.Operator, o.Justification, o.TransactionID, createdAt)
	return id, err
}
