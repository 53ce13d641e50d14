package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/portal/user-accounts/internal/core/domain"
)

func TestBcryptEncoder_DefaultCost(t *testing.T) {
	enc := NewBcryptEncoder(0)

	hash, err := enc.Encode("Secret123!")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != DefaultBcryptCost {
		t.Fatalf("expected cost %d, got %d", DefaultBcryptCost, cost)
	}
}

func TestBcryptEncoder_Matches(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	hash, err := enc.Encode("Secret123!")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if hash == "Secret123!" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !enc.Matches(hash, "Secret123!") {
		t.Fatal("expected hash to match its own plaintext")
	}
	for _, other := range []string{"secret123!", "Secret123", "", "Secret123!!"} {
		if enc.Matches(hash, other) {
			t.Fatalf("hash must not match %q", other)
		}
	}
}

func TestBcryptEncoder_SaltedHashesDiffer(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	a, _ := enc.Encode("same-password")
	b, _ := enc.Encode("same-password")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestBcryptEncoder_TooLong(t *testing.T) {
	enc := NewBcryptEncoder(bcrypt.MinCost)

	_, err := enc.Encode(strings.Repeat("a", 73))
	if !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}
