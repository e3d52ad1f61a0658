package riskoverride

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mwork/mwork-api/internal/domain/token"
	"github.com/mwork/mwork-api/internal/pkg/apperror"
	"github.com/mwork/mwork-api/internal/pkg/response"
	appvalidator "github.com/mwork/mwork-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type overrideRequest struct {
	TokenID        uuid.UUID `json:"tokenId" validate:"required"`
	AgentID        string    `json:"agentId" validate:"required"`
	Operator       string    `json:"operator" validate:"required"`
	OperatorSecret string    `json:"operatorSecret" validate:"required"`
	Justification  string    `json:"justification" validate:"required"`
}

// Apply handles POST /internal/risk/override. It is an audit tool, not a
// public endpoint — callers are expected to sit behind network-level
// access control, the same assumption other internal/admin
// routes make.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		apperror.Write(r.Context(), w, apperror.InvalidArgument("invalid JSON body", err))
		return
	}
	if fieldErrs := appvalidator.Validate(req); fieldErrs != nil {
		apperror.Write(r.Context(), w, apperror.Unprocessable("validation failed", fieldErrs))
		return
	}

	override, err := h.svc.Apply(r.Context(), OverrideParams{
		TokenID:        req.TokenID,
		AgentID:        req.AgentID,
		Operator:       req.Operator,
		OperatorSecret: req.OperatorSecret,
		Justification:  req.Justification,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredential):
			apperror.Write(r.Context(), w, apperror.Unauthorized("invalid operator credential", nil))
		case errors.Is(err, ErrNoJustification):
			apperror.Write(r.Context(), w, apperror.InvalidArgument(err.Error(), nil))
		case errors.Is(err, token.ErrExpiredOrUsed):
			apperror.Write(r.Context(), w, apperror.Conflict("token expired or already used", nil))
		default:
			apperror.Write(r.Context(), w, apperror.Internal("override failed", err))
		}
		return
	}

	apperror.SecurityLog(r.Context(), "risk override applied", map[string]interface{}{
		"token_id": override.TokenID,
		"operator": override.Operator,
	})

	response.OKWithMessage(w, "override applied", override)
}
