package user

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals a mutation against a profile that does not exist.
var ErrNotFound = errors.New("user: profile not found")

// Profile is the per-user record held by the identity store.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Subjects  []string  `json:"subjects"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasSubject reports whether the profile already carries the subject.
func (p *Profile) HasSubject(name string) bool {
	for _, s := range p.Subjects {
		if s == name {
			return true
		}
	}
	return false
}

// Store exposes the identity-store operations the bot depends on.
// Lookups return (nil, nil) on a miss; emails are expected lower-cased.
type Store interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	// Create upserts: an existing profile under the same identifier is
	// replaced wholesale, keeping only its original CreatedAt. This is how
	// re-registration updates an account instead of dead-ending.
	Create(ctx context.Context, profile *Profile) error
	// AddSubject appends with union semantics: adding a subject the
	// profile already holds leaves it unchanged.
	AddSubject(ctx context.Context, id, subject string) error
	// RemoveSubject removes with set-difference semantics: removing an
	// absent subject is a no-op.
	RemoveSubject(ctx context.Context, id, subject string) error
}
