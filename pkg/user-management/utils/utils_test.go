package utils

import (
	"strconv"
	"testing"
)

func TestSanitizeEmail(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := SanitizeEmail("\nFarmer@test.KE")
		if email != "farmer@test.ke" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("  \n farmer@test.ke \n\r")
		if email != "farmer@test.ke" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestCheckEmailFormat(t *testing.T) {
	t.Run("with missing @", func(t *testing.T) {
		if CheckEmailFormat("t.t.com") {
			t.Error("should be false")
		}
	})

	t.Run("with missing top level domain", func(t *testing.T) {
		if CheckEmailFormat("t@com") {
			t.Error("should be false")
		}
	})

	t.Run("with good address", func(t *testing.T) {
		if !CheckEmailFormat("office@coop.example.org") {
			t.Error("should be true")
		}
	})
}

func TestCheckPinFormat(t *testing.T) {
	t.Run("with too short pin", func(t *testing.T) {
		if CheckPinFormat("123") {
			t.Error("should be false")
		}
	})

	t.Run("with too long pin", func(t *testing.T) {
		if CheckPinFormat("1234567") {
			t.Error("should be false")
		}
	})

	t.Run("with non numeric pin", func(t *testing.T) {
		if CheckPinFormat("12a4") {
			t.Error("should be false")
		}
		if CheckPinFormat("") {
			t.Error("should be false")
		}
	})

	t.Run("with valid pins", func(t *testing.T) {
		for _, pin := range []string{"1234", "12345", "123456", "0000"} {
			if !CheckPinFormat(pin) {
				t.Errorf("should be true for %s", pin)
			}
		}
	})
}

func TestGenerateOTPCode(t *testing.T) {
	t.Run("codes stay in range", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := GenerateOTPCode()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(code) != 6 {
				t.Fatalf("unexpected code length: %s", code)
			}
			v, err := strconv.Atoi(code)
			if err != nil {
				t.Fatalf("code not numeric: %s", code)
			}
			if v < OTP_CODE_MIN || v > OTP_CODE_MAX {
				t.Fatalf("code out of range: %d", v)
			}
		}
	})
}

func TestGenerateUniqueTokenString(t *testing.T) {
	t.Run("tokens are unique", func(t *testing.T) {
		seen := map[string]struct{}{}
		for i := 0; i < 100; i++ {
			token, err := GenerateUniqueTokenString()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" {
				t.Fatal("empty token")
			}
			if _, ok := seen[token]; ok {
				t.Fatalf("duplicate token: %s", token)
			}
			seen[token] = struct{}{}
		}
	})
}

func TestBlurEmailAddress(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		if BlurEmailAddress("a@test.ke") != "a****@test.ke" {
			t.Error("unexpected blurred email")
		}
		if BlurEmailAddress("agronomist@test.ke") != "a****@test.ke" {
			t.Error("unexpected blurred email")
		}
	})
}
