package user

import (
	"context"
	"errors"
	"sync"

	"phonebook/internal/account/models"
	dirmodels "phonebook/internal/directory/models"
	"phonebook/pkg/domain"
	"phonebook/pkg/platform/sentinel"
)

// PersonLookup derefs a friend reference. The account store never owns
// persons; it only follows references.
type PersonLookup interface {
	FindByID(ctx context.Context, id domain.PersonID) (*dirmodels.Person, error)
}

// InMemory keeps accounts keyed by ID with a username index.
type InMemory struct {
	mu         sync.RWMutex
	users      map[domain.UserID]models.User
	byUsername map[string]domain.UserID
	persons    PersonLookup
}

func NewInMemory(persons PersonLookup) *InMemory {
	return &InMemory{
		users:      make(map[domain.UserID]models.User),
		byUsername: make(map[string]domain.UserID),
		persons:    persons,
	}
}

func (s *InMemory) CreateIfUsernameAvailable(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[u.Username]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.users[u.ID] = cloneUser(u)
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *InMemory) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u := cloneUser(ptr(s.users[id]))
	return &u, nil
}

// FindByID loads an account, optionally materializing its friends. Dangling
// references resolve to nothing and are dropped from the result.
func (s *InMemory) FindByID(ctx context.Context, id domain.UserID, resolveFriends bool) (*models.User, error) {
	s.mu.RLock()
	stored, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	u := cloneUser(&stored)
	if !resolveFriends {
		return &u, nil
	}
	u.Friends = make([]dirmodels.Person, 0, len(u.FriendIDs))
	for _, pid := range u.FriendIDs {
		p, err := s.persons.FindByID(ctx, pid)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		u.Friends = append(u.Friends, *p)
	}
	return &u, nil
}

// AddFriend appends a person reference unless it is already present.
func (s *InMemory) AddFriend(_ context.Context, userID domain.UserID, personID domain.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, id := range stored.FriendIDs {
		if id == personID {
			return nil
		}
	}
	stored.FriendIDs = append(append([]domain.PersonID{}, stored.FriendIDs...), personID)
	s.users[userID] = stored
	return nil
}

func ptr(u models.User) *models.User { return &u }

func cloneUser(u *models.User) models.User {
	out := *u
	out.FriendIDs = append([]domain.PersonID{}, u.FriendIDs...)
	out.Friends = nil
	return out
}
