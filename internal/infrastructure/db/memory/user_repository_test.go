package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/portal/user-accounts/internal/core/domain"
)

func TestUserRepository_SaveAssignsID(t *testing.T) {
	repo := NewUserRepository()
	u := &domain.User{Username: "alice", Email: "a@x.com", Role: domain.RoleUser}

	if err := repo.Save(context.Background(), u); err != nil {
		t.Fatalf("save: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected ID to be assigned")
	}

	got, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != u.ID || got.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	repo := NewUserRepository()
	_ = repo.Save(context.Background(), &domain.User{Username: "alice", Email: "a@x.com"})

	err := repo.Save(context.Background(), &domain.User{Username: "alice", Email: "b@x.com"})
	if !errors.Is(err, domain.ErrConflict) || !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected username conflict, got %v", err)
	}
}

func TestUserRepository_UpdateRejectsForeignEmail(t *testing.T) {
	repo := NewUserRepository()
	a := &domain.User{Username: "alice", Email: "a@x.com"}
	b := &domain.User{Username: "bob", Email: "b@x.com"}
	_ = repo.Save(context.Background(), a)
	_ = repo.Save(context.Background(), b)

	b.Email = "a@x.com"
	err := repo.Save(context.Background(), b)
	if !errors.Is(err, domain.ErrEmailRegistered) {
		t.Fatalf("expected email conflict, got %v", err)
	}

	b.Email = "bob@x.com"
	if err := repo.Save(context.Background(), b); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ok, _ := repo.ExistsByEmail(context.Background(), "b@x.com"); ok {
		t.Fatal("old email must be released after update")
	}
}

func TestUserRepository_FindReturnsCopy(t *testing.T) {
	repo := NewUserRepository()
	_ = repo.Save(context.Background(), &domain.User{Username: "alice", Email: "a@x.com", FullName: "Alice"})

	got, _ := repo.FindByUsername(context.Background(), "alice")
	got.FullName = "mutated"

	again, _ := repo.FindByUsername(context.Background(), "alice")
	if again.FullName != "Alice" {
		t.Fatal("stored record must not change without Save")
	}
}

func TestUserRepository_ListSorted(t *testing.T) {
	repo := NewUserRepository()
	for _, name := range []string{"carol", "alice", "bob"} {
		_ = repo.Save(context.Background(), &domain.User{Username: name, Email: name + "@x.com"})
	}

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 || users[0].Username != "alice" || users[2].Username != "carol" {
		t.Fatalf("unexpected order: %v %v %v", users[0].Username, users[1].Username, users[2].Username)
	}
}
