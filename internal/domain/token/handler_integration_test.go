package token_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mwork/mwork-api/internal/domain/token"
)

func TestMintHandlerRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	repo := token.NewRepository(db)
	svc := token.NewService(repo, "test-pepper")
	h := token.NewHandler(svc, repo, nil, 0)

	router := chi.NewRouter()
	router.Mount("/tokens", h.Routes(nil))

	body, _ := json.Marshal(map[string]interface{}{
		"accountId": uuid.New().String(),
		"amount":    0,
	})
	req := httptest.NewRequest(http.MethodPost, "/tokens/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMintHandlerHappyPath(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	repo := token.NewRepository(db)
	svc := token.NewService(repo, "test-pepper")
	h := token.NewHandler(svc, repo, nil, 0)

	router := chi.NewRouter()
	router.Mount("/tokens", h.Routes(nil))

	body, _ := json.Marshal(map[string]interface{}{
		"accountId": uuid.New().String(),
		"amount":    500,
	})
	req := httptest.NewRequest(http.MethodPost, "/tokens/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data.Token) != 13 {
		t.Fatalf("expected a 13-char full token, got %q", envelope.Data.Token)
	}
}

func TestRedeemHandlerRejectsMalformedToken(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(db)

	repo := token.NewRepository(db)
	svc := token.NewService(repo, "test-pepper")
	h := token.NewHandler(svc, repo, nil, 0)

	router := chi.NewRouter()
	router.Mount("/tokens", h.Routes(nil))

	body, _ := json.Marshal(map[string]interface{}{
		"token":     "not-a-real-token",
		"accountId": uuid.New().String(),
		"agentId":   "atm-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/tokens/redeem", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 400 or 422 for malformed token, got %d: %s", rec.Code, rec.Body.String())
	}
}
