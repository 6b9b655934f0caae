package models

import (
	"strings"
	"time"

	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
)

// Person is a directory entry.
//
// Invariants:
//   - Name is non-empty and unique across all persons (store-enforced)
//   - Street and City are non-empty
//   - Only Phone is mutable after creation
type Person struct {
	ID        domain.PersonID `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Street    string          `json:"street"`
	City      string          `json:"city"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewPerson validates the immutable fields and constructs a person. Phone is
// optional; an empty string means the person has no number on record.
func NewPerson(id domain.PersonID, name, phone, street, city string, now time.Time) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name cannot be empty").WithArg("name", name)
	}
	if strings.TrimSpace(street) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "street cannot be empty").WithArg("street", street)
	}
	if strings.TrimSpace(city) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "city cannot be empty").WithArg("city", city)
	}
	return &Person{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Street:    street,
		City:      city,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasPhone reports whether the person has a number on record.
func (p *Person) HasPhone() bool {
	return p.Phone != ""
}

// SetPhone updates the only mutable field.
func (p *Person) SetPhone(phone string, now time.Time) {
	p.Phone = phone
	p.UpdatedAt = now
}
