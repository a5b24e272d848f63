package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrGoogleNotConfigured is returned when GOOGLE_CLIENT_ID is unset.
var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// ErrInvalidGoogleToken wraps any verification failure.
var ErrInvalidGoogleToken = errors.New("invalid google credential")

// GoogleIdentity is what a verified ID token tells us about the user.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleVerifier checks a Google Sign-In credential.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// IDTokenVerifier validates credentials against Google's public keys.
type IDTokenVerifier struct {
	clientID string
	validate validateFunc
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, ErrGoogleNotConfigured
	}
	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}

	claim := func(key string) string {
		s, _ := payload.Claims[key].(string)
		return s
	}
	id := &GoogleIdentity{
		Subject: payload.Subject,
		Email:   claim("email"),
		Name:    claim("name"),
		Picture: claim("picture"),
	}
	id.EmailVerified, _ = payload.Claims["email_verified"].(bool)
	if id.Email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidGoogleToken)
	}
	return id, nil
}
