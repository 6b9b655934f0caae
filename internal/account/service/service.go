// Package service holds account rules: username uniqueness, per-account
// password verification, credential issuance, and the friends edge.
package service

import (
	"context"
	"errors"
	"log/slog"

	"phonebook/internal/account/models"
	"phonebook/internal/audit"
	dirmodels "phonebook/internal/directory/models"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/token"
	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
	"phonebook/pkg/platform/sentinel"
	"phonebook/pkg/requestcontext"
	"phonebook/pkg/secrets"
)

// UserStore is the persistence boundary for accounts. Username uniqueness is
// ultimately the store's guarantee.
type UserStore interface {
	CreateIfUsernameAvailable(ctx context.Context, u *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id domain.UserID, resolveFriends bool) (*models.User, error)
	AddFriend(ctx context.Context, userID domain.UserID, personID domain.PersonID) error
}

// PersonFinder derefs a friend-to-be by name; the account service never
// writes persons.
type PersonFinder interface {
	FindByName(ctx context.Context, name string) (*dirmodels.Person, error)
}

// Service orchestrates account lifecycle and authentication.
type Service struct {
	users      UserStore
	persons    PersonFinder
	tokens     *token.Service
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditor    audit.Emitter
	bcryptCost int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditEmitter(emitter audit.Emitter) Option {
	return func(s *Service) { s.auditor = emitter }
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func New(users UserStore, persons PersonFinder, tokens *token.Service, opts ...Option) *Service {
	s := &Service{users: users, persons: persons, tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers an account with a per-account password hash. A taken
// username fails with a conflict error carrying the offending username.
func (s *Service) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := secrets.Hash(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	u, err := models.NewUser(domain.NewUserID(), username, hash, now)
	if err != nil {
		return nil, err
	}

	if err := s.users.CreateIfUsernameAvailable(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "username must be unique").
				WithArg("username", u.Username)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	u.Friends = []dirmodels.Person{}
	s.metrics.IncrementUsersCreated()
	s.emit(ctx, audit.ActionUserCreated, u.Username, u.ID)
	s.logger.InfoContext(ctx, "user created",
		"request_id", requestcontext.RequestID(ctx),
		"username", u.Username,
	)
	return u, nil
}

// Login verifies the password against the account's stored hash and issues a
// signed credential. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", s.failLogin(ctx, username)
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to log in")
	}

	if err := secrets.Verify(password, u.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return "", s.failLogin(ctx, username)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to log in")
	}

	signed, err := s.tokens.Sign(u.Username, u.ID, requestcontext.Now(ctx))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.ObserveLogin("success")
	s.emit(ctx, audit.ActionLoginSucceeded, u.Username, u.ID)
	return signed, nil
}

// LoadByID fetches an account with friends materialized. A missing account
// yields nil, letting callers treat stale credentials as anonymous.
func (s *Service) LoadByID(ctx context.Context, id domain.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id, true)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return u, nil
}

// AddFriend appends the named person to the caller's friends, idempotently,
// and returns the account with friends re-materialized. An unknown person
// name yields a nil result, not an error.
func (s *Service) AddFriend(ctx context.Context, callerID domain.UserID, personName string) (*models.User, error) {
	p, err := s.persons.FindByName(ctx, personName)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add friend")
	}

	if err := s.users.AddFriend(ctx, callerID, p.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add friend")
	}

	u, err := s.users.FindByID(ctx, callerID, true)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add friend")
	}

	s.emit(ctx, audit.ActionFriendAdded, p.Name, callerID)
	return u, nil
}

func (s *Service) failLogin(ctx context.Context, username string) error {
	s.metrics.ObserveLogin("failure")
	s.emit(ctx, audit.ActionLoginFailed, username, domain.UserID{})
	return dErrors.New(dErrors.CodeUnauthorized, "wrong credentials")
}

func (s *Service) emit(ctx context.Context, action, subject string, actorID domain.UserID) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		Action:    action,
		ActorID:   actorID,
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}
