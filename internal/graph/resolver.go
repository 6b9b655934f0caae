// Package graph maps schema operations onto the directory and account
// services. Each operation is a statically typed method on Resolver; the
// executor dispatches to them by schema field name, so the set of handlers
// is closed at compile time.
package graph

import (
	"context"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	accmodels "phonebook/internal/account/models"
	accservice "phonebook/internal/account/service"
	dirmodels "phonebook/internal/directory/models"
	dirservice "phonebook/internal/directory/service"
	dErrors "phonebook/pkg/domain-errors"
	"phonebook/pkg/requestcontext"
)

// Resolver is the GraphQL root. It reads the caller from the request
// context; the auth middleware has already verified any credential and
// materialized the account with its friends.
type Resolver struct {
	directory *dirservice.Service
	accounts  *accservice.Service
	logger    *slog.Logger
}

func NewResolver(directory *dirservice.Service, accounts *accservice.Service, logger *slog.Logger) *Resolver {
	return &Resolver{directory: directory, accounts: accounts, logger: logger}
}

// NewSchema parses the wire contract against the resolver. Panics on a
// schema/resolver mismatch, which is a programming error caught at startup.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r)
}

// --- queries ---

func (r *Resolver) PersonCount(ctx context.Context) (int32, error) {
	n, err := r.directory.PersonCount(ctx)
	if err != nil {
		return 0, translate(err)
	}
	return int32(n), nil
}

func (r *Resolver) AllPersons(ctx context.Context, args struct{ PhoneFilter *string }) ([]*personResolver, error) {
	filter := dirmodels.PhoneFilterAny
	if args.PhoneFilter != nil {
		filter = dirmodels.PhoneFilter(*args.PhoneFilter)
	}
	persons, err := r.directory.AllPersons(ctx, filter)
	if err != nil {
		return nil, translate(err)
	}
	resolvers := make([]*personResolver, len(persons))
	for i := range persons {
		resolvers[i] = &personResolver{p: persons[i]}
	}
	return resolvers, nil
}

func (r *Resolver) FindPerson(ctx context.Context, args struct{ Name string }) (*personResolver, error) {
	p, err := r.directory.FindPerson(ctx, args.Name)
	if err != nil {
		return nil, translate(err)
	}
	if p == nil {
		return nil, nil
	}
	return &personResolver{p: *p}, nil
}

// Me degrades gracefully: anonymous callers get null, never an error.
func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	caller, ok := requestcontext.Caller(ctx)
	if !ok {
		return nil, nil
	}
	return &userResolver{u: *caller}, nil
}

// --- mutations ---

func (r *Resolver) AddPerson(ctx context.Context, args struct {
	Name   string
	Phone  *string
	Street string
	City   string
}) (*personResolver, error) {
	phone := ""
	if args.Phone != nil {
		phone = *args.Phone
	}
	p, err := r.directory.AddPerson(ctx, args.Name, phone, args.Street, args.City)
	if err != nil {
		return nil, translate(err)
	}
	return &personResolver{p: *p}, nil
}

func (r *Resolver) EditNumber(ctx context.Context, args struct{ Name, Phone string }) (*personResolver, error) {
	p, err := r.directory.EditNumber(ctx, args.Name, args.Phone)
	if err != nil {
		return nil, translate(err)
	}
	if p == nil {
		return nil, nil
	}
	return &personResolver{p: *p}, nil
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ Username, Password string }) (*userResolver, error) {
	u, err := r.accounts.CreateUser(ctx, args.Username, args.Password)
	if err != nil {
		return nil, translate(err)
	}
	return &userResolver{u: *u}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct{ Username, Password string }) (*tokenResolver, error) {
	signed, err := r.accounts.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, translate(err)
	}
	return &tokenResolver{value: signed}, nil
}

func (r *Resolver) AddAsFriend(ctx context.Context, args struct{ Name string }) (*userResolver, error) {
	caller, ok := requestcontext.Caller(ctx)
	if !ok {
		return nil, translate(dErrors.New(dErrors.CodeForbidden, "not authenticated"))
	}
	u, err := r.accounts.AddFriend(ctx, caller.ID, args.Name)
	if err != nil {
		return nil, translate(err)
	}
	if u == nil {
		return nil, nil
	}
	return &userResolver{u: *u}, nil
}

// --- type resolvers ---

type personResolver struct {
	p dirmodels.Person
}

func (r *personResolver) Name() string   { return r.p.Name }
func (r *personResolver) Street() string { return r.p.Street }
func (r *personResolver) City() string   { return r.p.City }

func (r *personResolver) Phone() *string {
	if !r.p.HasPhone() {
		return nil
	}
	phone := r.p.Phone
	return &phone
}

// Address is a read-time projection of the flat street/city columns.
func (r *personResolver) Address() *addressResolver {
	return &addressResolver{street: r.p.Street, city: r.p.City}
}

func (r *personResolver) ID() graphql.ID {
	return graphql.ID(r.p.ID.String())
}

type addressResolver struct {
	street string
	city   string
}

func (r *addressResolver) Street() string { return r.street }
func (r *addressResolver) City() string   { return r.city }

type userResolver struct {
	u accmodels.User
}

func (r *userResolver) Username() string { return r.u.Username }

// Friends resolves the stored references; the stores have already dropped
// dangling ones during materialization.
func (r *userResolver) Friends() []*personResolver {
	resolvers := make([]*personResolver, len(r.u.Friends))
	for i := range r.u.Friends {
		resolvers[i] = &personResolver{p: r.u.Friends[i]}
	}
	return resolvers
}

func (r *userResolver) ID() graphql.ID {
	return graphql.ID(r.u.ID.String())
}

type tokenResolver struct {
	value string
}

func (r *tokenResolver) Value() string { return r.value }
