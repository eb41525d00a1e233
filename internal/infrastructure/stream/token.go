// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	// DefaultTokenTTL is how long issued tokens stay valid.
	DefaultTokenTTL = time.Hour

	serverClaim = "server"
	userIDClaim = "user_id"
)

// TokenIssuer signs the HS256 JWTs the platform accepts for server and user authentication.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer signing with the platform API secret.
func NewTokenIssuer(apiSecret string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(apiSecret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
}

// ServerToken returns a token authorizing server-side API calls.
func (i *TokenIssuer) ServerToken() (string, error) {
	return i.sign(jwt.NewBuilder().Claim(serverClaim, true))
}

// UserToken returns a token that acts as the given user.
func (i *TokenIssuer) UserToken(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	return i.sign(jwt.NewBuilder().Claim(userIDClaim, userID))
}

func (i *TokenIssuer) sign(builder *jwt.Builder) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("api secret not configured")
	}

	now := i.now()
	token, err := builder.
		IssuedAt(now.Add(-5 * time.Second)).
		Expiration(now.Add(i.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, i.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}
