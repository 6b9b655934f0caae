// Package service holds the directory's business rules: uniqueness of person
// names, phone-only edits, and the phone-presence listing filter. Transport
// and persistence concerns live in other layers.
package service

import (
	"context"
	"errors"
	"log/slog"

	"phonebook/internal/audit"
	"phonebook/internal/directory/models"
	"phonebook/internal/platform/metrics"
	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
	"phonebook/pkg/platform/sentinel"
	"phonebook/pkg/requestcontext"
)

// PersonStore is the persistence boundary for directory entries. The store
// is the sole arbiter of name uniqueness under concurrency; service-level
// pre-checks exist only to fail fast.
type PersonStore interface {
	Count(ctx context.Context) (int, error)
	FindAll(ctx context.Context, filter models.PhoneFilter) ([]models.Person, error)
	FindByName(ctx context.Context, name string) (*models.Person, error)
	CreateIfNameAvailable(ctx context.Context, p *models.Person) error
	UpdatePhone(ctx context.Context, p *models.Person) error
}

// Service orchestrates person reads and writes.
type Service struct {
	persons PersonStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor audit.Emitter
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

func New(persons PersonStore, opts ...Option) *Service {
	s := &Service{persons: persons, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PersonCount returns the number of directory entries.
func (s *Service) PersonCount(ctx context.Context) (int, error) {
	n, err := s.persons.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count persons")
	}
	return n, nil
}

// AllPersons lists entries, optionally narrowed by phone presence.
func (s *Service) AllPersons(ctx context.Context, filter models.PhoneFilter) ([]models.Person, error) {
	if !filter.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown phone filter").WithArg("phoneFilter", string(filter))
	}
	persons, err := s.persons.FindAll(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list persons")
	}
	return persons, nil
}

// FindPerson looks up an entry by exact name. Absence is not an error; the
// result is nil.
func (s *Service) FindPerson(ctx context.Context, name string) (*models.Person, error) {
	p, err := s.persons.FindByName(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find person")
	}
	return p, nil
}

// AddPerson creates a directory entry. A taken name fails with a conflict
// error carrying the offending name; the store's unique constraint backs the
// pre-check, so a lost race surfaces as the same error.
func (s *Service) AddPerson(ctx context.Context, name, phone, street, city string) (*models.Person, error) {
	now := requestcontext.Now(ctx)
	p, err := models.NewPerson(domain.NewPersonID(), name, phone, street, city, now)
	if err != nil {
		return nil, err
	}

	// Courtesy pre-check so most duplicates fail before the insert.
	if _, err := s.persons.FindByName(ctx, p.Name); err == nil {
		return nil, duplicateName(p.Name)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add person")
	}

	if err := s.persons.CreateIfNameAvailable(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, duplicateName(p.Name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add person")
	}

	s.metrics.IncrementPersonsCreated()
	s.emit(ctx, audit.ActionPersonAdded, p.Name)
	s.logger.InfoContext(ctx, "person added",
		"request_id", requestcontext.RequestID(ctx),
		"name", p.Name,
	)
	return p, nil
}

// EditNumber updates the phone of the entry with the given name. An unknown
// name yields a nil result, not an error; no other field changes.
func (s *Service) EditNumber(ctx context.Context, name, phone string) (*models.Person, error) {
	p, err := s.persons.FindByName(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to edit number")
	}

	p.SetPhone(phone, requestcontext.Now(ctx))
	if err := s.persons.UpdatePhone(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Entry vanished between lookup and write; same contract as an
			// unknown name.
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to edit number")
	}

	s.emit(ctx, audit.ActionNumberEdited, p.Name)
	return p, nil
}

func (s *Service) emit(ctx context.Context, action, subject string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Action:    action,
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	}
	if caller, ok := requestcontext.Caller(ctx); ok {
		event.ActorID = caller.ID
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func duplicateName(name string) error {
	return dErrors.New(dErrors.CodeConflict, "name must be unique").WithArg("name", name)
}
