package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"phonebook/internal/account/models"
	dirmodels "phonebook/internal/directory/models"
	"phonebook/pkg/domain"
	"phonebook/pkg/platform/sentinel"
)

// Schema is applied by migrations and by the integration test harness.
// user_friends.person_id deliberately has no foreign key: friend edges are
// weak references, and a person disappearing must not break accounts.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS user_friends (
	user_id UUID NOT NULL REFERENCES users(id),
	person_id UUID NOT NULL,
	position INT NOT NULL,
	PRIMARY KEY (user_id, person_id)
);
`

const uniqueViolation = "23505"

// Postgres persists accounts and their friend edges.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateIfUsernameAvailable(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(u.ID), u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`, username)
	return s.scanUser(ctx, row)
}

// FindByID loads an account, optionally materializing its friends. The
// friends query inner-joins persons, so dangling references drop out of the
// result instead of erroring.
func (s *Postgres) FindByID(ctx context.Context, id domain.UserID, resolveFriends bool) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`, uuid.UUID(id))
	u, err := s.scanUser(ctx, row)
	if err != nil {
		return nil, err
	}
	if resolveFriends {
		friends, err := s.resolveFriends(ctx, id)
		if err != nil {
			return nil, err
		}
		u.Friends = friends
	}
	return u, nil
}

// AddFriend appends a person reference; re-adding an existing friend is a
// no-op rather than a conflict.
func (s *Postgres) AddFriend(ctx context.Context, userID domain.UserID, personID domain.PersonID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_friends (user_id, person_id, position)
		 SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM user_friends WHERE user_id = $1
		 ON CONFLICT (user_id, person_id) DO NOTHING`,
		uuid.UUID(userID), uuid.UUID(personID))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert friend edge: %w", err)
	}
	return nil
}

func (s *Postgres) scanUser(ctx context.Context, row *sql.Row) (*models.User, error) {
	var u models.User
	var id uuid.UUID
	err := row.Scan(&id, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = domain.UserID(id)

	rows, err := s.db.QueryContext(ctx,
		`SELECT person_id FROM user_friends WHERE user_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list friend edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid uuid.UUID
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("scan friend edge: %w", err)
		}
		u.FriendIDs = append(u.FriendIDs, domain.PersonID(pid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friend edges: %w", err)
	}
	return &u, nil
}

func (s *Postgres) resolveFriends(ctx context.Context, userID domain.UserID) ([]dirmodels.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.phone, p.street, p.city, p.created_at, p.updated_at
		 FROM user_friends f
		 JOIN persons p ON p.id = f.person_id
		 WHERE f.user_id = $1
		 ORDER BY f.position`,
		uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}
	defer rows.Close()

	friends := make([]dirmodels.Person, 0)
	for rows.Next() {
		var p dirmodels.Person
		var pid uuid.UUID
		if err := rows.Scan(&pid, &p.Name, &p.Phone, &p.Street, &p.City, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		p.ID = domain.PersonID(pid)
		friends = append(friends, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}
	return friends, nil
}
