package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("0123456789abcdef", time.Hour)

	token, err := m.Issue(7, true)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 7 || !claims.IsStaff {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewTokenManager("0123456789abcdef", time.Minute)
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, err := m.Issue(1, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	other := NewTokenManager("another-secret-value", time.Hour)
	foreign, err := other.Issue(1, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenManager("0123456789abcdef", time.Hour).Parse(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for forged token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch")
	}
	if CheckPassword("", "anything") {
		t.Fatal("empty hash must never match")
	}
}
