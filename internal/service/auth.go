package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutrilens/internal/applog"
	"nutrilens/internal/auth"
	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrLoginFieldsRequired = errors.New("email and password are required")
	ErrPasswordTooShort    = fmt.Errorf("password must be at least %d characters long", auth.MinPasswordLen)
	ErrEmailTaken          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrCredentialRequired  = errors.New("google credential is required")
	ErrUnauthorized        = errors.New("not authorized")
	ErrGoogleNotConfigured = auth.ErrGoogleNotConfigured
)

// RegisterInput is the body of a password registration.
type RegisterInput struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a signed-in user plus the token to hand back as a cookie.
type Session struct {
	User    *model.User
	Token   string
	Expires time.Time
}

// AuthService defines account use cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	GoogleLogin(ctx context.Context, credential string) (*Session, error)
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenIssuer
	google   auth.GoogleVerifier
	log      *applog.Logger
	now      func() time.Time
	hash     func(string) (string, error)
	randHash func() (string, error)
}

// NewAuthService constructs an AuthService. google may be nil when sign-in with Google is disabled.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, google auth.GoogleVerifier, log *applog.Logger) AuthService {
	if log == nil {
		log = applog.Default()
	}
	return &authService{
		users:    users,
		tokens:   tokens,
		google:   google,
		log:      log,
		now:      time.Now,
		hash:     auth.HashPassword,
		randHash: auth.RandomPasswordHash,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = normalizeEmail(in.Email)
	if in.UserName == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if len(in.Password) < auth.MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("auth", "user_registered", map[string]any{"user_id": u.ID})
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *authService) GoogleLogin(ctx context.Context, credential string) (*Session, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, ErrCredentialRequired
	}
	if s.google == nil {
		return nil, ErrGoogleNotConfigured
	}
	id, err := s.google.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleNotConfigured) {
			return nil, err
		}
		s.log.Warn("auth", "google_verify_failed", err, nil)
		return nil, ErrInvalidCredentials
	}

	email := normalizeEmail(id.Email)
	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.session(u)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	hash, err := s.randHash()
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(id.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	u, err = s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		UserName:     name,
		Email:        email,
		PasswordHash: hash,
		IsGoogleUser: true,
		Avatar:       id.Picture,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent first sign-in
		u, err = s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("auth", "google_user_created", map[string]any{"user_id": u.ID})
	return s.session(u)
}

func (s *authService) session(u *model.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, Expires: s.now().Add(s.tokens.TTL())}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}
