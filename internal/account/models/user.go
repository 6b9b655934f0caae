package models

import (
	"strings"
	"time"

	dirmodels "phonebook/internal/directory/models"
	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
)

const minUsernameLength = 3

// User is an authenticatable account holding an ordered set of person
// references ("friends").
//
// Invariants:
//   - Username is non-empty, at least 3 characters, globally unique
//     (store-enforced)
//   - PasswordHash holds a bcrypt hash and is never serialized
//   - FriendIDs is the persisted edge; Friends is populated only when the
//     store was asked to resolve references, and dangling references are
//     dropped during resolution
type User struct {
	ID           domain.UserID      `json:"id"`
	Username     string             `json:"username"`
	PasswordHash string             `json:"-"`
	FriendIDs    []domain.PersonID  `json:"-"`
	Friends      []dirmodels.Person `json:"friends,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewUser validates the username and constructs an account.
func NewUser(id domain.UserID, username, passwordHash string, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return nil, dErrors.New(dErrors.CodeValidation, "username must be at least 3 characters").
			WithArg("username", username)
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "password hash cannot be empty")
	}
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// IsFriend reports whether the person is already referenced.
func (u *User) IsFriend(personID domain.PersonID) bool {
	for _, id := range u.FriendIDs {
		if id == personID {
			return true
		}
	}
	return false
}
