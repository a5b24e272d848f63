package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"nutrilens/internal/model"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &model.User{ID: "u1", Email: "ana@example.com"}

	raw, err := issuer.Issue(u)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &model.User{ID: "u1", Email: "ana@example.com"}
	raw, err := issuer.Issue(u)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("other", time.Hour).Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Parse(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := NewTokenIssuer("", time.Hour).Issue(u)
		assert.Error(t, err)
	})
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))

	random, err := RandomPasswordHash()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(random, "$2a$10$"))
}

func TestIDTokenVerifier(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewIDTokenVerifier("").Verify(context.Background(), "cred")
		assert.ErrorIs(t, err, ErrGoogleNotConfigured)
	})

	t.Run("valid", func(t *testing.T) {
		v := NewIDTokenVerifier("client-1")
		v.validate = func(_ context.Context, token, aud string) (*idtoken.Payload, error) {
			assert.Equal(t, "cred", token)
			assert.Equal(t, "client-1", aud)
			return &idtoken.Payload{Subject: "g-1", Claims: map[string]any{
				"email": "ana@gmail.com", "email_verified": true, "name": "Ana", "picture": "https://pic",
			}}, nil
		}

		id, err := v.Verify(context.Background(), "cred")
		require.NoError(t, err)
		assert.Equal(t, &GoogleIdentity{Subject: "g-1", Email: "ana@gmail.com", EmailVerified: true, Name: "Ana", Picture: "https://pic"}, id)
	})

	t.Run("rejected", func(t *testing.T) {
		v := NewIDTokenVerifier("client-1")
		v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
			return nil, errors.New("audience mismatch")
		}
		_, err := v.Verify(context.Background(), "cred")
		assert.ErrorIs(t, err, ErrInvalidGoogleToken)
	})

	t.Run("no email", func(t *testing.T) {
		v := NewIDTokenVerifier("client-1")
		v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Subject: "g-1", Claims: map[string]any{}}, nil
		}
		_, err := v.Verify(context.Background(), "cred")
		assert.ErrorIs(t, err, ErrInvalidGoogleToken)
	})
}
