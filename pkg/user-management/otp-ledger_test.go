package usermanagement

import (
	"errors"
	"testing"
	"time"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func TestIssueOTP(t *testing.T) {
	t.Run("issues a six digit code with ten minute lifetime", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		otp, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "10.0.0.5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(otp.Code) != 6 {
			t.Errorf("unexpected code length: %q", otp.Code)
		}
		lifetime := otp.ExpiresAt.Sub(otp.CreatedAt)
		if lifetime < 9*time.Minute || lifetime > 11*time.Minute {
			t.Errorf("unexpected lifetime: %v", lifetime)
		}
		if otp.Used {
			t.Error("fresh code must not be marked used")
		}
	})

	t.Run("issuing a new code does not invalidate older ones", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		first, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// make the second code strictly newer
		for i := range store.otps {
			store.otps[i].CreatedAt = store.otps[i].CreatedAt.Add(-time.Minute)
		}
		second, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, otp := range store.otps {
			if otp.ID == first.ID && otp.Used {
				t.Error("older code must stay unused")
			}
		}

		// only the latest code is authoritative for redemption
		latest, err := store.GetLatestUnusedOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latest.ID != second.ID {
			t.Error("latest code must be the authoritative one")
		}
	})

	t.Run("throttles issuance per user and purpose", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		for i := 0; i < OTP_ISSUE_LIMIT; i++ {
			if _, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if _, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, ""); !errors.Is(err, ErrTooManyAttempts) {
			t.Errorf("unexpected error: %v", err)
		}
		// a different purpose is not affected
		if _, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposeEmailVerification, ""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestRedeemOTP(t *testing.T) {
	t.Run("redeems once then refuses replay of the same code", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		otp, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := RedeemOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, otp.Code); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// replay before natural expiry
		err = RedeemOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, otp.Code)
		if !errors.Is(err, ErrOtpNotFound) && !errors.Is(err, ErrOtpExpiredOrUsed) {
			t.Errorf("unexpected error on replay: %v", err)
		}
	})

	t.Run("expired code is refused regardless of used flag", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		otp, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// simulate redemption eleven minutes after issuance
		for i := range store.otps {
			if store.otps[i].ID == otp.ID {
				store.otps[i].CreatedAt = time.Now().Add(-11 * time.Minute)
				store.otps[i].ExpiresAt = time.Now().Add(-time.Minute)
			}
		}

		if err := RedeemOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, otp.Code); !errors.Is(err, ErrOtpExpiredOrUsed) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("wrong code does not consume the record", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		otp, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := RedeemOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "000000"); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("unexpected error: %v", err)
		}
		// the correct code still works afterwards
		if err := RedeemOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, otp.Code); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("no outstanding code yields not found", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		if err := RedeemOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "123456"); !errors.Is(err, ErrOtpNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
