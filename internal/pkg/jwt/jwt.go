// Package jwt issues and validates the bearer tokens cash-dispensing
// agents present when calling the redeem endpoint. It deliberately does
// not model account-holder sessions — user/account authentication is
// handled elsewhere.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid agent token")
	ErrExpiredToken = errors.New("agent token expired")
)

const tokenTypeAgent = "agent"

// AgentClaims identifies the cash-dispensing agent (ATM/teller terminal)
// making a redeem call.
type AgentClaims struct {
	AgentID string `json:"agent_id"`
	Type    string `json:"type"`
	jwt.RegisteredClaims
}

// AgentService issues and validates agent bearer tokens.
type AgentService struct {
	secret []byte
	ttl    time.Duration
}

// NewAgentService builds an AgentService signing with secret and minting
// tokens valid for ttl.
func NewAgentService(secret string, ttl time.Duration) *AgentService {
	return &AgentService{secret: []byte(secret), ttl: ttl}
}

// GenerateAgentToken issues a bearer token for agentID.
func (s *AgentService) GenerateAgentToken(agentID string) (string, error) {
	claims := AgentClaims{
		AgentID: agentID,
		Type:    tokenTypeAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agentID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateAgentToken validates and parses a bearer token previously
// issued by GenerateAgentToken.
func (s *AgentService) ValidateAgentToken(tokenString string) (*AgentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AgentClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AgentClaims)
	if !ok || !token.Valid || claims.Type != tokenTypeAgent {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
