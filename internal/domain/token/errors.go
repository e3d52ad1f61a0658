package token

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be a positive integer")
	ErrMalformedToken   = errors.New("token does not match the required format")
	ErrInvalid          = errors.New("token invalid")
	ErrExpiredOrUsed     = errors.New("token expired or already used")
	ErrMintExhausted     = errors.New("mint exhausted retry budget on hash collision")
)
