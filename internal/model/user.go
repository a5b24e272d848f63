package model

import "time"

// User is an account that can sign in with a password or a Google identity.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsGoogleUser bool      `json:"isGoogleUser"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the user shape returned to clients.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, UserName: u.UserName, Avatar: u.Avatar}
}
