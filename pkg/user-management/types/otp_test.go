package types

import (
	"testing"
	"time"
)

func TestOtpRecordIsValid(t *testing.T) {
	t.Run("fresh record", func(t *testing.T) {
		otp := OtpRecord{
			Code:      "123456",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(10 * time.Minute),
		}
		if !otp.IsValid() {
			t.Error("should be valid")
		}
	})

	t.Run("used record", func(t *testing.T) {
		otp := OtpRecord{
			Code:      "123456",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(10 * time.Minute),
			Used:      true,
		}
		if otp.IsValid() {
			t.Error("should be invalid")
		}
	})

	t.Run("expired record", func(t *testing.T) {
		otp := OtpRecord{
			Code:      "123456",
			CreatedAt: time.Now().Add(-11 * time.Minute),
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		if otp.IsValid() {
			t.Error("should be invalid")
		}
	})

	t.Run("expired and used record", func(t *testing.T) {
		otp := OtpRecord{
			Code:      "123456",
			CreatedAt: time.Now().Add(-time.Hour),
			ExpiresAt: time.Now().Add(-50 * time.Minute),
			Used:      true,
		}
		if otp.IsValid() {
			t.Error("should be invalid")
		}
	})
}
