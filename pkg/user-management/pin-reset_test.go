package usermanagement

import (
	"errors"
	"testing"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func TestPinResetFlow(t *testing.T) {
	t.Run("full reset flow changes the PIN and consumes the code", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		var deliveredCode string
		err := InitiatePinReset(testInstanceID, "farmer@example.com", "10.0.0.5", func(u userTypes.User, code string) error {
			deliveredCode = code
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deliveredCode == "" {
			t.Fatal("code was not handed to the delivery callback")
		}

		if err := CompletePinReset(testInstanceID, "farmer@example.com", deliveredCode, "9876"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.users[user.ID.Hex()].Profile.PIN != "9876" {
			t.Error("PIN was not updated")
		}

		// the code is consumed together with the PIN change
		err = CompletePinReset(testInstanceID, "farmer@example.com", deliveredCode, "1111")
		if !errors.Is(err, ErrOtpNotFound) && !errors.Is(err, ErrOtpExpiredOrUsed) {
			t.Errorf("unexpected error on replay: %v", err)
		}
	})

	t.Run("unknown identity fails without issuing a code", func(t *testing.T) {
		store := setupTestStore(t)

		err := InitiatePinReset(testInstanceID, "nobody@example.com", "", func(u userTypes.User, code string) error {
			t.Error("delivery callback must not run for unknown identities")
			return nil
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(store.otps) != 0 {
			t.Error("no code should have been issued")
		}
	})

	t.Run("malformed new PIN is rejected before touching the ledger", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		otp, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := CompletePinReset(testInstanceID, "farmer@example.com", otp.Code, "12ab"); err == nil {
			t.Error("expected an error for a malformed PIN")
		}
		latest, err := store.GetLatestUnusedOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset)
		if err != nil || latest.Used {
			t.Error("code must stay redeemable after a format rejection")
		}
	})

	t.Run("failed PIN write reverts the redemption", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		otp, err := IssueOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		store.failPinUpdate = true
		if err := CompletePinReset(testInstanceID, "farmer@example.com", otp.Code, "9876"); err == nil {
			t.Fatal("expected the PIN write failure to surface")
		}
		store.failPinUpdate = false

		// redemption and PIN change apply together or not at all
		if store.users[user.ID.Hex()].Profile.PIN != "4321" {
			t.Error("PIN must be unchanged")
		}
		latest, err := store.GetLatestUnusedOTP(testInstanceID, user.ID.Hex(), userTypes.OtpPurposePinReset)
		if err != nil {
			t.Fatal("code must have been reverted to unused")
		}
		if latest.ID != otp.ID || latest.Used {
			t.Error("code must stay redeemable after the revert")
		}
	})
}
