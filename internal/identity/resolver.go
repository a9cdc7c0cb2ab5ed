// Package identity maps external student identifiers to internal user
// ids. The demo fallback table lives here as seed data on an injected
// resolver constructed once at startup, read-only afterwards, instead of
// process-wide mutable state.
package identity

import (
	"context"

	"campus-laundry-backend/internal/model"
	"campus-laundry-backend/internal/store"
)

// Resolver maps a student ID to an internal user id.
type Resolver interface {
	Resolve(ctx context.Context, studentID string) (int64, error)
}

// SeedUser is a development account available without a database row.
type SeedUser struct {
	ID        int64
	StudentID string
	Password  string
	Name      string
	Email     string
}

// DefaultSeedUsers returns the built-in demo accounts.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{ID: 1, StudentID: "demo", Password: "demo", Name: "Demo User", Email: "demo@university.edu"},
		{ID: 2, StudentID: "123123", Password: "password", Name: "Student One", Email: "student1@university.edu"},
		{ID: 3, StudentID: "456789", Password: "student123", Name: "Student Two", Email: "student2@university.edu"},
	}
}

// StoreResolver resolves against the seed table first, then the
// datastore. The seed map is never mutated after construction.
type StoreResolver struct {
	store store.Store
	seed  map[string]SeedUser
}

// NewStoreResolver creates a resolver backed by the given store and seed
// accounts.
func NewStoreResolver(s store.Store, seeds []SeedUser) *StoreResolver {
	seedMap := make(map[string]SeedUser, len(seeds))
	for _, u := range seeds {
		seedMap[u.StudentID] = u
	}
	return &StoreResolver{store: s, seed: seedMap}
}

// Resolve returns the internal user id for a student ID, or
// store.ErrUserNotFound when neither the seed table nor the datastore
// knows it.
func (r *StoreResolver) Resolve(ctx context.Context, studentID string) (int64, error) {
	if u, ok := r.seed[studentID]; ok {
		return u.ID, nil
	}

	user, err := r.store.UserByStudentID(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// SeedPasswordMatches reports whether the given credentials match a seed
// account.
func (r *StoreResolver) SeedPasswordMatches(studentID, password string) (SeedUser, bool) {
	u, ok := r.seed[studentID]
	if !ok || u.Password != password {
		return SeedUser{}, false
	}
	return u, true
}

var _ Resolver = (*StoreResolver)(nil)

// AsUser converts a seed account to a user model for API responses.
func (u SeedUser) AsUser() model.User {
	return model.User{ID: u.ID, StudentID: u.StudentID, Name: u.Name, Email: u.Email}
}
