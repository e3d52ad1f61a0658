package token

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// candidateScanCap bounds the prefix candidate scan; beyond
// this, mint should be rate-limited rather than redeem scanning further.
const candidateScanCap = 32

var ErrTokenHashCollision = errors.New("token hash collision")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type mintParams struct {
	AccountID uuid.UUID
	Amount    int64
	TokenHash []byte
	Salt      []byte
	Prefix    string
	ExpiresAt time.Time
}

// Insert persists a freshly minted token row, returning ErrTokenHashCollision
// if the unique index on token_hash rejects the insert.
func (r *Repository) Insert(ctx context.Context, p mintParams) (uuid.UUID, time.Time, error) {
	id := uuid.New()
	createdAt := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (id, account_id, amount, token_hash, salt, prefix, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'ACTIVE', $7, $8)
	`, id, p.AccountID, p.Amount, p.TokenHash, p.Salt, p.Prefix, p.ExpiresAt, createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return uuid.Nil, time.Time{}, ErrTokenHashCollision
		}
		return uuid.Nil, time.Time{}, err
	}

	return id, createdAt, nil
}

// candidate is a narrow projection of Token used by the prefix scan.
type candidate struct {
	ID        uuid.UUID `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	Amount    int64     `db:"amount"`
	TokenHash []byte    `db:"token_hash"`
	Salt      []byte    `db:"salt"`
	ExpiresAt time.Time `db:"expires_at"`
}

// CandidatesByPrefix returns ACTIVE, unexpired tokens under prefix, capped
// at candidateScanCap rows.
func (r *Repository) CandidatesByPrefix(ctx context.Context, prefix string) ([]candidate, error) {
	var rows []candidate
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, amount, token_hash, salt, expires_at
		FROM tokens
		WHERE prefix = $1 AND status = 'ACTIVE' AND expires_at > now()
		LIMIT $2
	`, prefix, candidateScanCap)
	return rows, err
}

// lockedToken is the row state re-read under FOR UPDATE.
type lockedToken struct {
	ID        uuid.UUID `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	Amount    int64     `db:"amount"`
	Status    Status    `db:"status"`
	ExpiresAt time.Time `db:"expires_at"`
}

// RedeemTx executes the full redemption transaction for a token already
// matched by hash outside the lock: re-verify under FOR UPDATE, apply the
// optimistic status transition, insert the ledger row, insert the SUCCESS
// attempt row. Returns ErrExpiredOrUsed if the row is no longer redeemable
// by the time the lock is acquired, along with the AttemptResult (USED or
// EXPIRED) the caller should record for that terminal state.
func (r *Repository) RedeemTx(ctx context.Context, matchedID uuid.UUID, agentID string, metadata map[string]interface{}) (*Transaction, AttemptResult, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	var locked lockedToken
	err = tx.GetContext(ctx, &locked, `
		SELECT id, account_id, amount, status, expires_at
		FROM tokens
		WHERE id = $1
		FOR UPDATE
	`, matchedID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	if locked.Status == StatusUsed {
		return nil, AttemptResultUsed, ErrExpiredOrUsed
	}
	if locked.Status == StatusExpired || !now.Before(locked.ExpiresAt) {
		if locked.Status == StatusActive {
			// Observed-expired: side-effect transition to EXPIRED.
			_, _ = tx.ExecContext(ctx, `UPDATE tokens SET status = 'EXPIRED' WHERE id = $1 AND status = 'ACTIVE'`, matchedID)
			_ = tx.Commit()
		}
		return nil, AttemptResultExpired, ErrExpiredOrUsed
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE tokens SET status = 'USED', used_at = $2
		WHERE id = $1 AND status = 'ACTIVE'
	`, matchedID, now)
	if err != nil {
		return nil, "", err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, "", err
	}
	if affected == 0 {
		// The row lock guarantees this branch is unreachable in practice:
		// holding FOR UPDATE on an ACTIVE row means no concurrent
		// transaction could have changed its status first. Treated as a
		// lost-the-race USED outcome rather than a query error.
		return nil, AttemptResultUsed, ErrExpiredOrUsed
	}

	txnID := uuid.New()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, token_id, type, amount, status, created_at)
		VALUES ($1, $2, $3, 'WITHDRAWAL', $4, 'SUCCESS', $5)
	`, txnID, locked.AccountID, matchedID, locked.Amount, now)
	if err != nil {
		return nil, "", err
	}

	if err := r.insertAttemptTx(ctx, tx, &matchedID, agentID, AttemptResultSuccess, metadata); err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}

	return &Transaction{
		ID:        txnID,
		AccountID: locked.AccountID,
		TokenID:   matchedID,
		Type:      TransactionTypeWithdrawal,
		Amount:    locked.Amount,
		Status:    TransactionStatusSuccess,
		CreatedAt: now,
	}, AttemptResultSuccess, nil
}

// InsertAttempt records a terminal redemption outcome outside a
// redemption transaction (INVALID, REJECTED_BY_RISK, CHALLENGED).
func (r *Repository) InsertAttempt(ctx context.Context, tokenID *uuid.UUID, agentID string, result AttemptResult, metadata map[string]interface{}) error {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO redemption_attempts (id, token_id, agent_id, result, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), tokenID, agentID, string(result), metaJSON, time.Now().UTC())
	return err
}

func (r *Repository) insertAttemptTx(ctx context.Context, tx *sqlx.Tx, tokenID *uuid.UUID, agentID string, result AttemptResult, metadata map[string]interface{}) error {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO redemption_attempts (id, token_id, agent_id, result, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), tokenID, agentID, string(result), metaJSON, time.Now().UTC())
	return err
}

// Velocity10m counts tokens minted for accountID in the last 10 minutes.
func (r *Repository) Velocity10m(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT count(*) FROM tokens WHERE account_id = $1 AND created_at > now() - interval '10 minutes'
	`, accountID)
	return count, err
}

// AvgSuccessAmount returns the mean amount of successful ledger entries
// for accountID, or 0 if none exist.
func (r *Repository) AvgSuccessAmount(ctx context.Context, accountID uuid.UUID) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.GetContext(ctx, &avg, `
		SELECT avg(amount) FROM transactions WHERE account_id = $1 AND status = 'SUCCESS'
	`, accountID)
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// FailedAttempts24h counts non-SUCCESS redemption attempts in the last
// 24 hours against tokens belonging to accountID.
func (r *Repository) FailedAttempts24h(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT count(*)
		FROM redemption_attempts ra
		JOIN tokens t ON t.id = ra.token_id
		WHERE t.account_id = $1 AND ra.result != 'SUCCESS' AND ra.created_at > now() - interval '24 hours'
	`, accountID)
	return count, err
}

// LastSuccessIP returns the ip metadata field of the most recent
// successful redemption attempt for accountID, or "" if none exist.
func (r *Repository) LastSuccessIP(ctx context.Context, accountID uuid.UUID) (string, error) {
	var metaJSON []byte
	err := r.db.GetContext(ctx, &metaJSON, `
		SELECT ra.metadata
		FROM redemption_attempts ra
		JOIN tokens t ON t.id = ra.token_id
		WHERE t.account_id = $1 AND ra.result = 'SUCCESS'
		ORDER BY ra.created_at DESC
		LIMIT 1
	`, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return "", nil
	}
	if ip, ok := meta["ip"].(string); ok {
		return ip, nil
	}
	return "", nil
}

// LedgerRowCount returns how many ledger rows exist for tokenID, for
// tests asserting at-most-one ledger row per token.
func (r *Repository) LedgerRowCount(ctx context.Context, tokenID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM transactions WHERE token_id = $1`, tokenID)
	return count, err
}
