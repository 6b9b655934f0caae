package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userstore "phonebook/internal/account/store/user"
	dirmodels "phonebook/internal/directory/models"
	personstore "phonebook/internal/directory/store/person"
	"phonebook/internal/token"
	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
)

type fixture struct {
	svc     *Service
	persons *personstore.InMemory
	tokens  *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	persons := personstore.NewInMemory()
	tokens := token.NewService("test-signing-key", "phonebook-test", time.Hour)
	svc := New(userstore.NewInMemory(persons), persons, tokens,
		WithBcryptCost(bcrypt.MinCost),
	)
	return &fixture{svc: svc, persons: persons, tokens: tokens}
}

func (f *fixture) addPerson(t *testing.T, ctx context.Context, name string) domain.PersonID {
	t.Helper()
	p, err := dirmodels.NewPerson(domain.NewPersonID(), name, "", "Main St 1", "Springfield", time.Now())
	require.NoError(t, err)
	require.NoError(t, f.persons.CreateIfNameAvailable(ctx, p))
	return p.ID
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account with empty friends", func(t *testing.T) {
		f := newFixture(t)

		u, err := f.svc.CreateUser(ctx, "mluukkai", "secret")
		require.NoError(t, err)
		assert.Equal(t, "mluukkai", u.Username)
		assert.False(t, u.ID.IsNil())
		assert.NotNil(t, u.Friends)
		assert.Empty(t, u.Friends)
	})

	t.Run("stores a verifiable hash, never the password", func(t *testing.T) {
		f := newFixture(t)

		u, err := f.svc.CreateUser(ctx, "hasher", "secret")
		require.NoError(t, err)
		assert.NotEqual(t, "secret", u.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")))
	})

	t.Run("rejects usernames shorter than 3 characters", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateUser(ctx, "ab", "secret")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = f.svc.CreateUser(ctx, "abc", "secret")
		require.NoError(t, err)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateUser(ctx, "taken", "secret")
		require.NoError(t, err)

		_, err = f.svc.CreateUser(ctx, "taken", "other")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

		var dErr *dErrors.Error
		require.ErrorAs(t, err, &dErr)
		assert.Equal(t, "taken", dErr.InvalidArgs["username"])
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a verifiable token for correct credentials", func(t *testing.T) {
		f := newFixture(t)
		u, err := f.svc.CreateUser(ctx, "mluukkai", "secret")
		require.NoError(t, err)

		signed, err := f.svc.Login(ctx, "mluukkai", "secret")
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		claims, err := f.tokens.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "mluukkai", claims.Username)

		id, err := claims.ParsedUserID()
		require.NoError(t, err)
		assert.Equal(t, u.ID, id)
	})

	t.Run("wrong password fails with unauthorized", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateUser(ctx, "mluukkai", "secret")
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, "mluukkai", "wrong")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown username fails indistinguishably from wrong password", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateUser(ctx, "mluukkai", "secret")
		require.NoError(t, err)

		_, unknownErr := f.svc.Login(ctx, "nobody", "secret")
		_, wrongErr := f.svc.Login(ctx, "mluukkai", "wrong")
		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestLoadByID(t *testing.T) {
	ctx := context.Background()

	t.Run("loads an existing account", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateUser(ctx, "loader", "secret")
		require.NoError(t, err)

		u, err := f.svc.LoadByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "loader", u.Username)
	})

	t.Run("missing account yields nil without error", func(t *testing.T) {
		f := newFixture(t)

		u, err := f.svc.LoadByID(ctx, domain.NewUserID())
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

func TestAddFriend(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the person and returns resolved friends", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateUser(ctx, "befriender", "secret")
		require.NoError(t, err)
		f.addPerson(t, ctx, "Ana")

		u, err := f.svc.AddFriend(ctx, created.ID, "Ana")
		require.NoError(t, err)
		require.NotNil(t, u)
		require.Len(t, u.Friends, 1)
		assert.Equal(t, "Ana", u.Friends[0].Name)
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateUser(ctx, "befriender", "secret")
		require.NoError(t, err)
		f.addPerson(t, ctx, "Ana")

		_, err = f.svc.AddFriend(ctx, created.ID, "Ana")
		require.NoError(t, err)
		u, err := f.svc.AddFriend(ctx, created.ID, "Ana")
		require.NoError(t, err)
		assert.Len(t, u.Friends, 1)
	})

	t.Run("unknown person yields nil without error", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.svc.CreateUser(ctx, "befriender", "secret")
		require.NoError(t, err)

		u, err := f.svc.AddFriend(ctx, created.ID, "Nobody")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("deleted account fails with unauthorized", func(t *testing.T) {
		f := newFixture(t)
		f.addPerson(t, ctx, "Ana")

		_, err := f.svc.AddFriend(ctx, domain.NewUserID(), "Ana")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
