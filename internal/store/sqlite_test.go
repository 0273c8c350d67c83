package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/edventure/tutorbot/internal/model/user"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "tutorbot.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteCreateAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := &user.Profile{
		ID:       "u1",
		Email:    "a@b.com",
		Username: "tester",
		Subjects: []string{"Math"},
	}
	if err := s.Create(ctx, profile); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.GetByID(ctx, "u1")
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if got.Email != "a@b.com" || got.Username != "tester" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if len(got.Subjects) != 1 || got.Subjects[0] != "Math" {
		t.Fatalf("subjects not round-tripped: %v", got.Subjects)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", got)
	}

	got, err = s.FindByEmail(ctx, "a@b.com")
	if err != nil || got == nil || got.ID != "u1" {
		t.Fatalf("FindByEmail: %v, %v", got, err)
	}
}

func TestSQLiteMissesReturnNilNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if p, err := s.GetByID(ctx, "ghost"); err != nil || p != nil {
		t.Fatalf("miss must be (nil, nil), got %v, %v", p, err)
	}
	if p, err := s.FindByEmail(ctx, "ghost@b.com"); err != nil || p != nil {
		t.Fatalf("miss must be (nil, nil), got %v, %v", p, err)
	}
}

func TestSQLiteEmailUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, &user.Profile{ID: "u1", Email: "a@b.com", Username: "one"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create(ctx, &user.Profile{ID: "u2", Email: "a@b.com", Username: "two"}); err == nil {
		t.Fatal("duplicate email must be rejected by the unique index")
	}
}

func TestSQLiteNilSubjectsStoredAsEmptyList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, &user.Profile{ID: "u1", Email: "a@b.com", Username: "tester"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.GetByID(ctx, "u1")
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v, %v", got, err)
	}
	if got.Subjects == nil || len(got.Subjects) != 0 {
		t.Fatalf("expected empty subject list, got %#v", got.Subjects)
	}
}

func TestSQLiteSubjectUnionAndDifference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, &user.Profile{ID: "u1", Email: "a@b.com", Username: "tester"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.AddSubject(ctx, "u1", "Math"); err != nil {
			t.Fatalf("AddSubject #%d: %v", i+1, err)
		}
	}
	if err := s.AddSubject(ctx, "u1", "Physics"); err != nil {
		t.Fatalf("AddSubject: %v", err)
	}
	got, _ := s.GetByID(ctx, "u1")
	if len(got.Subjects) != 2 || got.Subjects[0] != "Math" || got.Subjects[1] != "Physics" {
		t.Fatalf("expected {Math, Physics}, got %v", got.Subjects)
	}

	if err := s.RemoveSubject(ctx, "u1", "English"); err != nil {
		t.Fatalf("removing an absent subject must be a no-op: %v", err)
	}
	if err := s.RemoveSubject(ctx, "u1", "Math"); err != nil {
		t.Fatalf("RemoveSubject: %v", err)
	}
	got, _ = s.GetByID(ctx, "u1")
	if len(got.Subjects) != 1 || got.Subjects[0] != "Physics" {
		t.Fatalf("expected {Physics}, got %v", got.Subjects)
	}
}

func TestSQLiteSubjectMutationsRequireProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddSubject(ctx, "ghost", "Math"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.RemoveSubject(ctx, "ghost", "Math"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tutorbot.db")
	ctx := context.Background()

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Create(ctx, &user.Profile{ID: "u1", Email: "a@b.com", Username: "tester"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.AddSubject(ctx, "u1", "Math"); err != nil {
		t.Fatalf("AddSubject: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.GetByID(ctx, "u1")
	if err != nil || got == nil {
		t.Fatalf("GetByID after reopen: %v, %v", got, err)
	}
	if len(got.Subjects) != 1 || got.Subjects[0] != "Math" {
		t.Fatalf("subjects lost across reopen: %v", got.Subjects)
	}
}
