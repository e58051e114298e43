package usermanagement

import (
	"errors"
	"testing"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func TestStepUpOTP(t *testing.T) {
	setupPendingLogin := func(t *testing.T, store *memStore, twoFactor bool) (userTypes.User, string) {
		t.Helper()
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")
		if twoFactor {
			stored := store.users[user.ID.Hex()]
			stored.SecurityPolicy.TwoFactorEnabled = true
			stored.SecurityPolicy.SessionTimeout = 15
			store.users[user.ID.Hex()] = stored
		}
		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AWAITING_STEP_UP {
			t.Fatalf("unexpected status: %v", result.Status)
		}
		return user, result.PendingToken
	}

	t.Run("emailed code completes a pending login", func(t *testing.T) {
		store := setupTestStore(t)
		user, token := setupPendingLogin(t, store, true)

		var code string
		err := RequestStepUpOTP(testInstanceID, token, "", func(u userTypes.User, c string) error {
			code = c
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result, err := VerifyStepUpOTP(testInstanceID, token, code, "10.0.0.9", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AUTHENTICATED || result.User.ID != user.ID {
			t.Errorf("unexpected result: %+v", result)
		}
		if _, ok := store.pendingAuths[token]; ok {
			t.Error("pending marker not cleared")
		}
	})

	t.Run("wrong code keeps the transaction pending", func(t *testing.T) {
		store := setupTestStore(t)
		user, token := setupPendingLogin(t, store, true)

		err := RequestStepUpOTP(testInstanceID, token, "", func(u userTypes.User, c string) error { return nil })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result, err := VerifyStepUpOTP(testInstanceID, token, "000000", "", "")
		if err == nil {
			t.Fatal("expected an error for a wrong code")
		}
		if result.Status != LOGIN_STATUS_AWAITING_STEP_UP {
			t.Errorf("unexpected status: %v", result.Status)
		}
		if _, ok := store.pendingAuths[token]; !ok {
			t.Error("pending marker must survive a wrong code")
		}
		// the mismatch lands in the journal
		total, successes := store.countAttempts(user.ID.Hex())
		if total != 2 || successes != 1 {
			t.Errorf("expected password success plus code failure, got total %d successes %d", total, successes)
		}
	})

	t.Run("without two factor enabled no code is issued", func(t *testing.T) {
		store := setupTestStore(t)
		_, token := setupPendingLogin(t, store, false)

		err := RequestStepUpOTP(testInstanceID, token, "", func(u userTypes.User, c string) error {
			t.Error("delivery callback must not run")
			return nil
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown marker is refused", func(t *testing.T) {
		setupTestStore(t)

		if _, err := VerifyStepUpOTP(testInstanceID, "does-not-exist", "123456", "", ""); !errors.Is(err, ErrPendingAuthNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
