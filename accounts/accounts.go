package accounts

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is a registered credential record. It is created exactly once
// at registration and read at login; this service never updates or
// deletes it.
type Account struct {
	ID             string    `json:"id,omitempty"`         // Unique identifier, assigned by the store at creation
	DisplayName    string    `json:"name,omitempty"`       // Display name supplied at registration
	Email          string    `json:"email,omitempty"`      // Canonical login identifier, unique per account
	CredentialHash string    `json:"-"`                    // bcrypt hash of the password - never serialize
	CreatedAt      time.Time `json:"created_at,omitempty"` // Date and time when the account was registered
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
