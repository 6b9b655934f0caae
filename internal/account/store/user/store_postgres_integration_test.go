//go:build integration

package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"phonebook/internal/account/models"
	userstore "phonebook/internal/account/store/user"
	dirmodels "phonebook/internal/directory/models"
	personstore "phonebook/internal/directory/store/person"
	"phonebook/pkg/domain"
	"phonebook/pkg/platform/sentinel"
	"phonebook/pkg/testutil/containers"
)

type PostgresUserSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	store   *userstore.Postgres
	persons *personstore.Postgres
	ctx     context.Context
}

func (s *PostgresUserSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = userstore.NewPostgres(s.pg.DB)
	s.persons = personstore.NewPostgres(s.pg.DB)
}

func (s *PostgresUserSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "user_friends", "users", "persons"))
}

func TestPostgresUserSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresUserSuite))
}

func (s *PostgresUserSuite) newUser(username string) *models.User {
	u, err := models.NewUser(domain.NewUserID(), username, "hash", time.Now().UTC())
	s.Require().NoError(err)
	return u
}

func (s *PostgresUserSuite) addPerson(name string) *dirmodels.Person {
	p, err := dirmodels.NewPerson(domain.NewPersonID(), name, "", "Main St 1", "Springfield", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.persons.CreateIfNameAvailable(s.ctx, p))
	return p
}

func (s *PostgresUserSuite) TestRoundTrip() {
	u := s.newUser("mluukkai")
	s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, u))

	found, err := s.store.FindByUsername(s.ctx, "mluukkai")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)
	s.Equal("hash", found.PasswordHash)

	byID, err := s.store.FindByID(s.ctx, u.ID, false)
	s.Require().NoError(err)
	s.Equal("mluukkai", byID.Username)
}

func (s *PostgresUserSuite) TestUniqueConstraint() {
	s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, s.newUser("taken")))

	err := s.store.CreateIfUsernameAvailable(s.ctx, s.newUser("taken"))
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresUserSuite) TestFriendEdges() {
	u := s.newUser("befriender")
	s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, u))
	ana := s.addPerson("Ana")
	bo := s.addPerson("Bo")

	s.Require().NoError(s.store.AddFriend(s.ctx, u.ID, ana.ID))
	s.Require().NoError(s.store.AddFriend(s.ctx, u.ID, bo.ID))
	// Re-adding must not duplicate the edge.
	s.Require().NoError(s.store.AddFriend(s.ctx, u.ID, ana.ID))

	found, err := s.store.FindByID(s.ctx, u.ID, true)
	s.Require().NoError(err)
	s.Require().Len(found.Friends, 2)
	s.Equal("Ana", found.Friends[0].Name)
	s.Equal("Bo", found.Friends[1].Name)
}

func (s *PostgresUserSuite) TestDanglingFriendReferencesDrop() {
	u := s.newUser("dangling")
	s.Require().NoError(s.store.CreateIfUsernameAvailable(s.ctx, u))
	kept := s.addPerson("Kept")
	s.Require().NoError(s.store.AddFriend(s.ctx, u.ID, kept.ID))
	// An edge to a person that no longer exists: no FK, so it simply stops
	// resolving.
	s.Require().NoError(s.store.AddFriend(s.ctx, u.ID, domain.NewPersonID()))

	found, err := s.store.FindByID(s.ctx, u.ID, true)
	s.Require().NoError(err)
	s.Require().Len(found.Friends, 1)
	s.Equal("Kept", found.Friends[0].Name)
	s.Len(found.FriendIDs, 2)
}

func (s *PostgresUserSuite) TestAddFriendUnknownUser() {
	ana := s.addPerson("Ana")

	err := s.store.AddFriend(s.ctx, domain.NewUserID(), ana.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
