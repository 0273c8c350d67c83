package user

import (
	"context"
	"testing"
)

func newProfile(id, email string) *Profile {
	return &Profile{ID: id, Email: email, Username: "tester", Subjects: []string{}}
}

func TestMemoryStoreCreateAndLookup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Create(ctx, newProfile("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p, err := s.GetByID(ctx, "u1")
	if err != nil || p == nil {
		t.Fatalf("GetByID: %v, %v", p, err)
	}
	if p.Email != "a@b.com" || p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatalf("stored profile incomplete: %+v", p)
	}

	p, err = s.FindByEmail(ctx, "a@b.com")
	if err != nil || p == nil || p.ID != "u1" {
		t.Fatalf("FindByEmail: %v, %v", p, err)
	}

	// Misses are (nil, nil), not errors.
	if p, err := s.GetByID(ctx, "ghost"); err != nil || p != nil {
		t.Fatalf("miss must be (nil, nil), got %v, %v", p, err)
	}
	if p, err := s.FindByEmail(ctx, "ghost@b.com"); err != nil || p != nil {
		t.Fatalf("miss must be (nil, nil), got %v, %v", p, err)
	}
}

func TestMemoryStoreAddSubjectUnion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Create(ctx, newProfile("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.AddSubject(ctx, "u1", "Math"); err != nil {
			t.Fatalf("AddSubject #%d: %v", i+1, err)
		}
	}
	p, _ := s.GetByID(ctx, "u1")
	if len(p.Subjects) != 1 || p.Subjects[0] != "Math" {
		t.Fatalf("expected {Math}, got %v", p.Subjects)
	}

	if err := s.AddSubject(ctx, "ghost", "Math"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestMemoryStoreRemoveSubjectDifference(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Create(ctx, newProfile("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.AddSubject(ctx, "u1", "Math"); err != nil {
		t.Fatalf("AddSubject: %v", err)
	}

	// Removing an absent subject is a no-op, not an error.
	if err := s.RemoveSubject(ctx, "u1", "Physics"); err != nil {
		t.Fatalf("RemoveSubject absent: %v", err)
	}
	p, _ := s.GetByID(ctx, "u1")
	if len(p.Subjects) != 1 {
		t.Fatalf("expected {Math}, got %v", p.Subjects)
	}

	if err := s.RemoveSubject(ctx, "u1", "Math"); err != nil {
		t.Fatalf("RemoveSubject: %v", err)
	}
	p, _ = s.GetByID(ctx, "u1")
	if len(p.Subjects) != 0 {
		t.Fatalf("expected empty, got %v", p.Subjects)
	}

	if err := s.RemoveSubject(ctx, "ghost", "Math"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Create(ctx, newProfile("u1", "a@b.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.AddSubject(ctx, "u1", "Math"); err != nil {
		t.Fatalf("AddSubject: %v", err)
	}

	p, _ := s.GetByID(ctx, "u1")
	p.Subjects[0] = "tampered"
	p.Email = "tampered@b.com"

	fresh, _ := s.GetByID(ctx, "u1")
	if fresh.Subjects[0] != "Math" || fresh.Email != "a@b.com" {
		t.Fatalf("caller mutation leaked into the store: %+v", fresh)
	}
}
