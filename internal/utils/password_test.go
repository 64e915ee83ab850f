package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	password := "Str0ngPass!"

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == "" {
		t.Error("Hash() returned empty string")
	}

	if hash == password {
		t.Error("Hash() should not return plaintext password")
	}

	if len(hash) < 50 {
		t.Errorf("hash seems too short: %d chars", len(hash))
	}
}

func TestHashPassword_DifferentHashes(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash1, _ := h.Hash("Str0ngPass!")
	hash2, _ := h.Hash("Str0ngPass!")

	if hash1 == hash2 {
		t.Error("same password should produce different hashes (due to salt)")
	}
}

func TestHashPassword_Cost(t *testing.T) {
	hash, err := NewPasswordHasher(DefaultPasswordCost).Hash("Str0ngPass!")
	if err != nil {
		t.Fatal(err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatal(err)
	}
	if cost != DefaultPasswordCost {
		t.Errorf("cost = %d, expected %d", cost, DefaultPasswordCost)
	}
}

func TestNewPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	for _, cost := range []int{0, -1, bcrypt.MaxCost + 1} {
		if h := NewPasswordHasher(cost); h.cost != DefaultPasswordCost {
			t.Errorf("NewPasswordHasher(%d).cost = %d, expected %d", cost, h.cost, DefaultPasswordCost)
		}
	}
}

func TestVerifyPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, _ := h.Hash("CorrectPass1")

	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{"correct password", "CorrectPass1", true},
		{"wrong password", "WrongPass1", false},
		{"empty password", "", false},
		{"similar password", "CorrectPass12", false},
		{"case sensitive", "correctpass1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.Verify(tt.password, hash)
			if err != nil {
				t.Fatalf("Verify(%q) error = %v", tt.password, err)
			}
			if result != tt.expected {
				t.Errorf("Verify(%q) = %v, expected %v", tt.password, result, tt.expected)
			}
		})
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, hash := range []string{"invalid_hash", ""} {
		ok, err := h.Verify("password", hash)
		if ok {
			t.Errorf("Verify should return false for hash %q", hash)
		}
		if err == nil {
			t.Errorf("Verify should return an error for malformed hash %q", hash)
		}
	}
}

func TestVerifyPassword_NeverMatchesPlaintext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, _ := h.Hash("Str0ngPass!")
	if strings.Contains(hash, "Str0ngPass!") {
		t.Error("hash must not embed the plaintext")
	}
}
