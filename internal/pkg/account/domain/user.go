package account

import (
	"errors"
	"strings"
	"time"
)

// User is a registered account. Passwords are stored as bcrypt hashes.
// VerificationCode is non-empty only while the contact is pending
// verification. The json tags are the persistence encoding (file and
// Postgres backends marshal the struct); API responses go through Public,
// never through this struct directly.
type User struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	PasswordHash     string    `json:"passwordHash" bson:"passwordHash"`
	Verified         bool      `json:"verified" bson:"verified"`
	VerificationCode string    `json:"verificationCode,omitempty" bson:"verificationCode,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

func (u User) EntityID() string { return u.ID }

// PublicUser is the credential-free view of an account exposed over the API.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// Public strips the credential material from the record.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Verified: u.Verified}
}

func NewUser(id, name, email, passwordHash, verificationCode string, now time.Time) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("account: email is required")
	}
	if passwordHash == "" {
		return nil, errors.New("account: password hash is required")
	}
	return &User{
		ID:               id,
		Name:             strings.TrimSpace(name),
		Email:            email,
		PasswordHash:     passwordHash,
		Verified:         false,
		VerificationCode: verificationCode,
		CreatedAt:        now,
	}, nil
}
