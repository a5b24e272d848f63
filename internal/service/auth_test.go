package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nutrilens/internal/applog"
	"nutrilens/internal/auth"
	"nutrilens/internal/model"
	"nutrilens/internal/repository"
	repoMocks "nutrilens/internal/repository/mocks"
)

type fakeGoogle struct {
	id  *auth.GoogleIdentity
	err error
}

func (f fakeGoogle) Verify(context.Context, string) (*auth.GoogleIdentity, error) {
	return f.id, f.err
}

func newAuthFixture(t *testing.T, google auth.GoogleVerifier) (*authService, *repoMocks.MockUserRepository) {
	t.Helper()
	repo := new(repoMocks.MockUserRepository)
	svc := NewAuthService(repo, auth.NewTokenIssuer("test-secret", time.Hour), google, applog.New(io.Discard, time.UTC)).(*authService)
	svc.hash = func(p string) (string, error) { return "hashed:" + p, nil }
	svc.randHash = func() (string, error) { return "random", nil }
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return svc, repo
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      RegisterInput
		setup   func(repo *repoMocks.MockUserRepository)
		wantErr error
	}{
		{
			name: "happy path lowercases email",
			in:   RegisterInput{UserName: " Ana ", Email: "Ana@Example.com", Password: "supersecret"},
			setup: func(repo *repoMocks.MockUserRepository) {
				repo.On("FindByEmail", ctx, "ana@example.com").Return(nil, repository.ErrNotFound)
				repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.UserName == "Ana" && u.Email == "ana@example.com" && u.PasswordHash == "hashed:supersecret" && u.ID != ""
				})).Return(&model.User{ID: "u1", Email: "ana@example.com"}, nil)
			},
		},
		{
			name:    "missing fields",
			in:      RegisterInput{Email: "a@b.c", Password: "supersecret"},
			setup:   func(*repoMocks.MockUserRepository) {},
			wantErr: ErrMissingFields,
		},
		{
			name:    "short password",
			in:      RegisterInput{UserName: "a", Email: "a@b.c", Password: "short"},
			setup:   func(*repoMocks.MockUserRepository) {},
			wantErr: ErrPasswordTooShort,
		},
		{
			name: "existing email",
			in:   RegisterInput{UserName: "a", Email: "a@b.c", Password: "supersecret"},
			setup: func(repo *repoMocks.MockUserRepository) {
				repo.On("FindByEmail", ctx, "a@b.c").Return(&model.User{ID: "u0"}, nil)
			},
			wantErr: ErrEmailTaken,
		},
		{
			name: "unique violation on insert",
			in:   RegisterInput{UserName: "a", Email: "a@b.c", Password: "supersecret"},
			setup: func(repo *repoMocks.MockUserRepository) {
				repo.On("FindByEmail", ctx, "a@b.c").Return(nil, repository.ErrNotFound)
				repo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newAuthFixture(t, nil)
			tt.setup(repo)

			u, err := svc.Register(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", u.ID)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)
	user := &model.User{ID: "u1", Email: "ana@example.com", PasswordHash: hash}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		svc, repo := newAuthFixture(t, nil)
		repo.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)
		repo.On("FindByID", ctx, "u1").Return(user, nil)

		sess, err := svc.Login(ctx, "ANA@example.com", "supersecret")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), sess.Expires, time.Minute)

		got, err := svc.Authenticate(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo := newAuthFixture(t, nil)
		repo.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)

		_, err := svc.Login(ctx, "ana@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo := newAuthFixture(t, nil)
		repo.On("FindByEmail", ctx, "who@example.com").Return(nil, repository.ErrNotFound)

		_, err := svc.Login(ctx, "who@example.com", "whatever1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newAuthFixture(t, nil)
	repo.On("FindByID", ctx, "gone").Return(nil, repository.ErrNotFound)
	token, err := svc.tokens.Issue(&model.User{ID: "gone"})
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", token} {
		_, err := svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrUnauthorized, raw)
	}
}

func TestAuthService_GoogleLogin(t *testing.T) {
	ctx := context.Background()
	id := &auth.GoogleIdentity{Subject: "g1", Email: "Ana@Gmail.com", Picture: "https://img/a.png"}

	t.Run("creates a google user", func(t *testing.T) {
		svc, repo := newAuthFixture(t, fakeGoogle{id: id})
		repo.On("FindByEmail", ctx, "ana@gmail.com").Return(nil, repository.ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.IsGoogleUser && u.UserName == "ana" && u.Avatar == "https://img/a.png" && u.PasswordHash == "random"
		})).Return(&model.User{ID: "u2", Email: "ana@gmail.com"}, nil)

		sess, err := svc.GoogleLogin(ctx, "cred")
		require.NoError(t, err)
		assert.Equal(t, "u2", sess.User.ID)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("existing user signs in", func(t *testing.T) {
		svc, repo := newAuthFixture(t, fakeGoogle{id: id})
		repo.On("FindByEmail", ctx, "ana@gmail.com").Return(&model.User{ID: "u1"}, nil)

		sess, err := svc.GoogleLogin(ctx, "cred")
		require.NoError(t, err)
		assert.Equal(t, "u1", sess.User.ID)
	})

	t.Run("errors", func(t *testing.T) {
		svc, _ := newAuthFixture(t, fakeGoogle{err: errors.New("bad signature")})
		_, err := svc.GoogleLogin(ctx, "")
		assert.ErrorIs(t, err, ErrCredentialRequired)
		_, err = svc.GoogleLogin(ctx, "cred")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		svc, _ = newAuthFixture(t, nil)
		_, err = svc.GoogleLogin(ctx, "cred")
		assert.ErrorIs(t, err, ErrGoogleNotConfigured)
	})
}
