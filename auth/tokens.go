// Package auth verifies the bearer tokens issued by the account service and
// carries the authenticated user id in the request context.
package auth

import (
	"fmt"
	"time"

	"github.com/hako/branca"
	"github.com/nicolasparada/go-errs"
)

const DefaultTokenTTL = time.Hour * 24 * 14

var (
	// ErrInvalidToken denotes a malformed token or one sealed with another key.
	ErrInvalidToken = errs.UnauthenticatedError("invalid token")
	// ErrExpiredToken denotes that the token already expired.
	ErrExpiredToken = errs.UnauthenticatedError("expired token")
)

// Tokens encodes and decodes branca tokens whose payload is a user id.
type Tokens struct {
	Key string
	TTL time.Duration
}

func (t Tokens) Encode(userID string) (string, error) {
	token, err := t.codec().EncodeToString(userID)
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return token, nil
}

// Decode returns the user id sealed in token.
func (t Tokens) Decode(token string) (string, error) {
	userID, err := t.codec().DecodeToString(token)
	if err != nil {
		if _, ok := err.(*branca.ErrExpiredToken); ok {
			return "", ErrExpiredToken
		}

		// Bad encoding, version, or a token sealed with another key.
		return "", ErrInvalidToken
	}

	if userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}

func (t Tokens) codec() *branca.Branca {
	ttl := t.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	cdc := branca.NewBranca(t.Key)
	cdc.SetTTL(uint32(ttl.Seconds()))
	return cdc
}
