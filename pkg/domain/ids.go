// Package domain holds identifier primitives shared across layers. Typed IDs
// keep person and user identifiers from being mixed up at compile time.
package domain

import "github.com/google/uuid"

// PersonID identifies a directory entry.
type PersonID uuid.UUID

// UserID identifies an account.
type UserID uuid.UUID

// NewPersonID returns a fresh random person identifier.
func NewPersonID() PersonID {
	return PersonID(uuid.New())
}

// NewUserID returns a fresh random user identifier.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// ParsePersonID validates and returns a PersonID.
func ParsePersonID(s string) (PersonID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return PersonID{}, err
	}
	return PersonID(id), nil
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(id), nil
}

func (id PersonID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero UUID.
func (id PersonID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero UUID.
func (id UserID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
