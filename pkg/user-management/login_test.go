package usermanagement

import (
	"errors"
	"testing"
	"time"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func TestLogin(t *testing.T) {
	t.Run("unknown identity is rejected and journalled without user reference", func(t *testing.T) {
		store := setupTestStore(t)

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "nobody@example.com", Password: "SuperSecret1"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_REJECTED {
			t.Errorf("unexpected status: %v", result.Status)
		}
		if len(store.attempts) != 1 {
			t.Fatalf("expected one journal entry, got %d", len(store.attempts))
		}
		if store.attempts[0].UserID != "" || store.attempts[0].Reason != userTypes.LOGIN_FAILURE_USER_NOT_FOUND {
			t.Errorf("unexpected journal entry: %+v", store.attempts[0])
		}
	})

	t.Run("wrong password is rejected and journalled", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "wrongpassword"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_REJECTED {
			t.Errorf("unexpected status: %v", result.Status)
		}
		total, successes := store.countAttempts(user.ID.Hex())
		if total != 1 || successes != 0 {
			t.Errorf("expected one failure entry, got total %d successes %d", total, successes)
		}
	})

	t.Run("inactive account is rejected even with correct password", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")
		stored := store.users[user.ID.Hex()]
		stored.Account.Status = userTypes.ACCOUNT_STATUS_INACTIVE
		store.users[user.ID.Hex()] = stored

		_, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("unexpected error: %v", err)
		}
		if store.attempts[0].Reason != userTypes.LOGIN_FAILURE_ACCOUNT_INACTIVE {
			t.Errorf("unexpected journal reason: %v", store.attempts[0].Reason)
		}
	})

	t.Run("without PIN a correct password authenticates with exactly one success entry", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "Farmer@example.com ", "SuperSecret1", "")

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1", Origin: "10.0.0.5"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AUTHENTICATED {
			t.Errorf("unexpected status: %v", result.Status)
		}
		total, successes := store.countAttempts(user.ID.Hex())
		if total != 1 || successes != 1 {
			t.Errorf("expected exactly one success entry, got total %d successes %d", total, successes)
		}
		if store.users[user.ID.Hex()].Profile.LastLoginIP != "10.0.0.5" {
			t.Errorf("last login origin not updated")
		}
	})

	t.Run("with PIN set the password check only yields a pending marker", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AWAITING_STEP_UP {
			t.Errorf("unexpected status: %v", result.Status)
		}
		if result.PendingToken == "" {
			t.Fatal("expected a pending token")
		}
		if result.User.ID.Hex() == user.ID.Hex() {
			t.Error("user must not be populated before step-up completes")
		}
		if _, ok := store.pendingAuths[result.PendingToken]; !ok {
			t.Error("pending marker not stored")
		}
	})
}

func TestVerifyPin(t *testing.T) {
	t.Run("wrong PIN keeps the transaction pending", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result, err = VerifyPin(testInstanceID, result.PendingToken, "0000", "", "")
		if !errors.Is(err, ErrInvalidPin) {
			t.Errorf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AWAITING_STEP_UP {
			t.Errorf("unexpected status: %v", result.Status)
		}
		if _, ok := store.pendingAuths[result.PendingToken]; !ok {
			t.Error("pending marker must survive a PIN mismatch")
		}
		total, successes := store.countAttempts(user.ID.Hex())
		if total != 2 || successes != 1 {
			t.Errorf("expected password success plus PIN failure, got total %d successes %d", total, successes)
		}
	})

	t.Run("correct PIN authenticates and consumes the marker", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		token := result.PendingToken

		result, err = VerifyPin(testInstanceID, token, "4321", "10.0.0.7", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AUTHENTICATED {
			t.Errorf("unexpected status: %v", result.Status)
		}
		if result.User.ID != user.ID {
			t.Error("authenticated user mismatch")
		}
		if _, ok := store.pendingAuths[token]; ok {
			t.Error("pending marker not cleared")
		}

		// replaying the consumed marker must fail
		_, err = VerifyPin(testInstanceID, token, "4321", "", "")
		if !errors.Is(err, ErrPendingAuthNotFound) {
			t.Errorf("unexpected error on marker replay: %v", err)
		}
	})

	t.Run("expired marker is refused", func(t *testing.T) {
		store := setupTestStore(t)
		addTestUser(t, store, "farmer@example.com", "SuperSecret1", "4321")

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pending := store.pendingAuths[result.PendingToken]
		pending.ExpiresAt = time.Now().Add(-time.Minute)
		store.pendingAuths[result.PendingToken] = pending

		_, err = VerifyPin(testInstanceID, result.PendingToken, "4321", "", "")
		if !errors.Is(err, ErrPendingAuthNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestLoginLockout(t *testing.T) {
	t.Run("sliding window lockout and automatic unlock", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")
		if store.users[user.ID.Hex()].SecurityPolicy.MaxLoginAttempts != 5 {
			t.Fatal("test assumes the default max attempts of 5")
		}

		// four failures within the window
		for i := 0; i < 4; i++ {
			_, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "wrongpassword"})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		// four failures are still below the threshold of five
		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AUTHENTICATED {
			t.Fatalf("unexpected status: %v", result.Status)
		}
	})

	t.Run("threshold reached rejects correct password", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")
		stored := store.users[user.ID.Hex()]
		stored.SecurityPolicy.MaxLoginAttempts = 4
		store.users[user.ID.Hex()] = stored

		for i := 0; i < 4; i++ {
			_, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "wrongpassword"})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		result, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if !errors.Is(err, ErrTooManyAttempts) {
			t.Errorf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_LOCKED_OUT {
			t.Errorf("unexpected status: %v", result.Status)
		}

		// the lockout itself is journalled as a failure
		total, successes := store.countAttempts(user.ID.Hex())
		if total != 5 || successes != 0 {
			t.Errorf("expected five failure entries, got total %d successes %d", total, successes)
		}

		// age all failures past the window: the account unlocks on its own
		for i := range store.attempts {
			store.attempts[i].Timestamp = time.Now().Add(-31 * time.Minute)
		}
		result, err = Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != LOGIN_STATUS_AUTHENTICATED {
			t.Errorf("unexpected status: %v", result.Status)
		}
	})
}

func TestGetLoginHistory(t *testing.T) {
	t.Run("returns newest entries first, capped at the limit", func(t *testing.T) {
		store := setupTestStore(t)
		user := addTestUser(t, store, "farmer@example.com", "SuperSecret1", "")

		if _, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "wrong-password"}); err == nil {
			t.Fatal("expected error")
		}
		if _, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "also-wrong"}); err == nil {
			t.Fatal("expected error")
		}
		if _, err := Login(LoginRequest{InstanceID: testInstanceID, AccountID: "farmer@example.com", Password: "SuperSecret1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// spread the timestamps so the ordering is unambiguous
		for i := range store.attempts {
			store.attempts[i].Timestamp = time.Now().Add(time.Duration(i-len(store.attempts)) * time.Minute)
		}

		history, err := GetLoginHistory(testInstanceID, user.ID.Hex(), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected two entries, got %d", len(history))
		}
		if !history[0].Timestamp.After(history[1].Timestamp) {
			t.Error("history not ordered newest first")
		}
		// the most recent entry is the successful login
		if !history[0].Success {
			t.Error("expected the latest entry to be the successful attempt")
		}
	})
}
