package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// User is a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Fullname     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a user with a generated id and a bcrypt password hash.
func NewUser(username, password, fullname string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:           newID("user"),
		Username:     username,
		PasswordHash: string(hashed),
		Fullname:     fullname,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// VerifyPassword reports whether the password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
