package pwhash

import (
	"strings"
	"testing"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Run("matching password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(hash, "$argon2id$") {
			t.Errorf("unexpected hash format: %s", hash)
		}

		match, err := ComparePasswordWithHash(hash, "correct horse battery staple")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !match {
			t.Error("password should match")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		match, err := ComparePasswordWithHash(hash, "wrong password")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if match {
			t.Error("password should not match")
		}
	})

	t.Run("same password different salts", func(t *testing.T) {
		h1, _ := HashPassword("secret")
		h2, _ := HashPassword("secret")
		if h1 == h2 {
			t.Error("hashes should differ because of random salts")
		}
	})

	t.Run("malformed hash", func(t *testing.T) {
		if _, err := ComparePasswordWithHash("not-a-hash", "secret"); err == nil {
			t.Error("should fail on malformed hash")
		}
	})
}
