package person

import (
	"context"
	"sync"

	"phonebook/internal/directory/models"
	"phonebook/pkg/domain"
	"phonebook/pkg/platform/sentinel"
)

// InMemory keeps persons in insertion order with a name index. The write
// lock makes check-and-insert atomic within the process, mirroring the
// unique index the postgres store relies on.
type InMemory struct {
	mu      sync.RWMutex
	persons []models.Person
	byName  map[string]int
}

func NewInMemory() *InMemory {
	return &InMemory{byName: make(map[string]int)}
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.persons), nil
}

func (s *InMemory) FindAll(_ context.Context, filter models.PhoneFilter) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Person, 0, len(s.persons))
	for i := range s.persons {
		if filter.Matches(&s.persons[i]) {
			out = append(out, s.persons[i])
		}
	}
	return out, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.byName[name]; ok {
		p := s.persons[i]
		return &p, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByID(_ context.Context, id domain.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.persons {
		if s.persons[i].ID == id {
			p := s.persons[i]
			return &p, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) CreateIfNameAvailable(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[p.Name]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.persons = append(s.persons, *p)
	s.byName[p.Name] = len(s.persons) - 1
	return nil
}

func (s *InMemory) UpdatePhone(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byName[p.Name]
	if !ok || s.persons[i].ID != p.ID {
		return sentinel.ErrNotFound
	}
	s.persons[i].Phone = p.Phone
	s.persons[i].UpdatedAt = p.UpdatedAt
	return nil
}
