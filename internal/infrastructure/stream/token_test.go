// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package stream

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_ServerToken(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	signed, err := issuer.ServerToken()
	require.NoError(t, err)

	token, err := jwt.Parse([]byte(signed), jwt.WithKey(jwa.HS256, []byte("secret")))
	require.NoError(t, err)

	server, ok := token.Get(serverClaim)
	require.True(t, ok)
	assert.Equal(t, true, server)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), token.Expiration(), time.Minute)
}

func TestTokenIssuer_UserToken(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	signed, err := issuer.UserToken("agent-1")
	require.NoError(t, err)

	token, err := jwt.Parse([]byte(signed), jwt.WithKey(jwa.HS256, []byte("secret")))
	require.NoError(t, err)
	userID, ok := token.Get(userIDClaim)
	require.True(t, ok)
	assert.Equal(t, "agent-1", userID)

	_, err = jwt.Parse([]byte(signed), jwt.WithKey(jwa.HS256, []byte("other")))
	assert.Error(t, err)
}

func TestTokenIssuer_Errors(t *testing.T) {
	_, err := NewTokenIssuer("").ServerToken()
	assert.ErrorContains(t, err, "api secret not configured")

	_, err = NewTokenIssuer("secret").UserToken("")
	assert.ErrorContains(t, err, "user id is required")
}
