package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nutrilens/internal/model"
	"nutrilens/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, user_name, email, password_hash, is_google_user, avatar, created_at`

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(
		&u.ID,
		&u.UserName,
		&u.Email,
		&u.PasswordHash,
		&u.IsGoogleUser,
		&u.Avatar,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. A taken email yields repository.ErrDuplicate.
func (r *UserPostgres) Create(ctx context.Context, user *model.User) (*model.User, error) {
	q := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		user.ID,
		user.UserName,
		user.Email,
		user.PasswordHash,
		user.IsGoogleUser,
		user.Avatar,
		user.CreatedAt,
	)
	u, err := scanUser(row)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// FindByEmail fetches a user by exact email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByID fetches a user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserPostgres) findOne(ctx context.Context, q string, arg any) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgInvalidTextFormat {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
