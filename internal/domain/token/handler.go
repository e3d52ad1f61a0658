package token

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwork/mwork-api/internal/pkg/apperror"
	"github.com/mwork/mwork-api/internal/pkg/metrics"
	"github.com/mwork/mwork-api/internal/pkg/response"
	appvalidator "github.com/mwork/mwork-api/internal/pkg/validator"
)

// RiskGate is implemented by the risk domain. The handler depends on
// this narrow interface rather than the concrete risk package to keep
// the token domain free of a dependency on risk's aggregation queries.
type RiskGate interface {
	Evaluate(ctx context.Context, accountID uuid.UUID, amount int64, metadata map[string]interface{}) (decision string, reasons []string, err error)
}

type Handler struct {
	svc      *Service
	risk     RiskGate
	repo     *Repository
	tokenTTL time.Duration
}

func NewHandler(svc *Service, repo *Repository, risk RiskGate, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, repo: repo, risk: risk, tokenTTL: tokenTTL}
}

type mintRequest struct {
	AccountID uuid.UUID `json:"accountId" validate:"required"`
	Amount    int64     `json:"amount" validate:"required,gte=1"`
}

type mintResponseData struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	Amount    int64     `json:"amount"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		apperror.Write(r.Context(), w, apperror.InvalidArgument("invalid JSON body", err))
		return
	}
	if fieldErrs := appvalidator.Validate(req); fieldErrs != nil {
		apperror.Write(r.Context(), w, apperror.InvalidArgumentWithFields("validation failed", fieldErrs))
		return
	}

	result, err := h.svc.Mint(r.Context(), req.AccountID, req.Amount, h.tokenTTL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			metrics.MintOutcomesTotal.WithLabelValues("invalid_amount").Inc()
			apperror.Write(r.Context(), w, apperror.InvalidArgument(err.Error(), nil))
		case errors.Is(err, ErrMintExhausted):
			metrics.MintOutcomesTotal.WithLabelValues("exhausted").Inc()
			apperror.Write(r.Context(), w, apperror.Internal("unable to mint token", err))
		default:
			metrics.MintOutcomesTotal.WithLabelValues("error").Inc()
			apperror.Write(r.Context(), w, apperror.Internal("mint failed", err))
		}
		return
	}
	metrics.MintOutcomesTotal.WithLabelValues("success").Inc()

	response.Created(w, mintResponseData{
		ID:        result.ID,
		Token:     result.Plaintext,
		Amount:    result.Amount,
		ExpiresAt: result.ExpiresAt,
	})
}

type redeemRequest struct {
	Token     string                 `json:"token" validate:"required,fulltoken"`
	AccountID uuid.UUID              `json:"accountId" validate:"required"`
	AgentID   string                 `json:"agentId" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		apperror.Write(r.Context(), w, apperror.InvalidArgument("invalid JSON body", err))
		return
	}
	if fieldErrs := appvalidator.Validate(req); fieldErrs != nil {
		apperror.Write(r.Context(), w, apperror.InvalidArgument("malformed redeem request", nil))
		return
	}

	match, err := h.svc.MatchToken(r.Context(), req.Token, req.AgentID, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedToken), errors.Is(err, ErrInvalid):
			metrics.RedeemOutcomesTotal.WithLabelValues("invalid").Inc()
			apperror.Write(r.Context(), w, apperror.InvalidArgument("token invalid", nil))
		default:
			metrics.RedeemOutcomesTotal.WithLabelValues("error").Inc()
			apperror.Write(r.Context(), w, apperror.Internal("redeem failed", err))
		}
		return
	}

	if h.risk != nil {
		decision, reasons, err := h.risk.Evaluate(r.Context(), match.AccountID, match.Amount, req.Metadata)
		if err != nil {
			apperror.Write(r.Context(), w, apperror.Internal("risk evaluation failed", err))
			return
		}
		switch decision {
		case "REJECT":
			_ = h.repo.InsertAttempt(r.Context(), &match.TokenID, req.AgentID, AttemptResultRejectedByRisk, req.Metadata)
			metrics.RedeemOutcomesTotal.WithLabelValues("rejected_by_risk").Inc()
			apperror.SecurityLog(r.Context(), "redeem rejected by risk engine", map[string]interface{}{"agent_id": req.AgentID, "reasons": reasons})
			apperror.Write(r.Context(), w, apperror.ForbiddenWithReasons("redeem rejected by risk controls", reasons))
			return
		case "CHALLENGE":
			_ = h.repo.InsertAttempt(r.Context(), &match.TokenID, req.AgentID, AttemptResultChallenged, req.Metadata)
			metrics.RedeemOutcomesTotal.WithLabelValues("challenged").Inc()
			apperror.SecurityLog(r.Context(), "redeem challenged by risk engine", map[string]interface{}{"agent_id": req.AgentID, "reasons": reasons})
			apperror.Write(r.Context(), w, apperror.ForbiddenWithReasons("additional verification required", reasons))
			return
		}
	}

	result, err := h.svc.CompleteRedeem(r.Context(), match.TokenID, req.AgentID, req.Metadata)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpiredOrUsed):
			metrics.RedeemOutcomesTotal.WithLabelValues("expired_or_used").Inc()
			apperror.Write(r.Context(), w, apperror.Conflict("token expired or already used", nil))
		default:
			metrics.RedeemOutcomesTotal.WithLabelValues("error").Inc()
			apperror.Write(r.Context(), w, apperror.Internal("redeem failed", err))
		}
		return
	}
	metrics.RedeemOutcomesTotal.WithLabelValues("success").Inc()

	response.OKWithMessage(w, "withdrawal approved", map[string]interface{}{
		"transactionId": result.TransactionID,
	})
}
