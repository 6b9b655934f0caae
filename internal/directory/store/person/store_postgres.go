package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"phonebook/internal/directory/models"
	"phonebook/pkg/domain"
	"phonebook/pkg/platform/sentinel"
)

// Schema is applied by migrations and by the integration test harness.
// The unique index on name is the authoritative uniqueness guarantee;
// service-level pre-checks are a courtesy only.
const Schema = `
CREATE TABLE IF NOT EXISTS persons (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL,
	city TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

const uniqueViolation = "23505"

// Postgres persists persons in the persons table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}

func (s *Postgres) FindAll(ctx context.Context, filter models.PhoneFilter) ([]models.Person, error) {
	query := `SELECT id, name, phone, street, city, created_at, updated_at FROM persons`
	switch filter {
	case models.PhoneFilterHas:
		query += ` WHERE phone <> ''`
	case models.PhoneFilterNone:
		query += ` WHERE phone = ''`
	}
	query += ` ORDER BY created_at, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, street, city, created_at, updated_at FROM persons WHERE name = $1`, name)
	return scanPersonRow(row)
}

func (s *Postgres) FindByID(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, phone, street, city, created_at, updated_at FROM persons WHERE id = $1`,
		uuid.UUID(id))
	return scanPersonRow(row)
}

func (s *Postgres) CreateIfNameAvailable(ctx context.Context, p *models.Person) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (id, name, phone, street, city, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(p.ID), p.Name, p.Phone, p.Street, p.City, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *Postgres) UpdatePhone(ctx context.Context, p *models.Person) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE persons SET phone = $1, updated_at = $2 WHERE id = $3`,
		p.Phone, p.UpdatedAt, uuid.UUID(p.ID))
	if err != nil {
		return fmt.Errorf("update person phone: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person phone: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(r rowScanner) (*models.Person, error) {
	var p models.Person
	var id uuid.UUID
	if err := r.Scan(&id, &p.Name, &p.Phone, &p.Street, &p.City, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan person: %w", err)
	}
	p.ID = domain.PersonID(id)
	return &p, nil
}

func scanPersonRow(row *sql.Row) (*models.Person, error) {
	var p models.Person
	var id uuid.UUID
	err := row.Scan(&id, &p.Name, &p.Phone, &p.Street, &p.City, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan person: %w", err)
	}
	p.ID = domain.PersonID(id)
	return &p, nil
}
