package usermanagement

import (
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/OdamboMichael/ims.xp/pkg/user-management/pwhash"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

const (
	// sliding window over which journalled failures count against the
	// max-attempts threshold - once old failures age out the account
	// unlocks on its own
	LOGIN_FAILURE_WINDOW = 30 * time.Minute

	PENDING_AUTH_TTL = 5 * time.Minute
)

type LoginRequest struct {
	InstanceID string
	AccountID  string
	Password   string
	Origin     string
	UserAgent  string
}

// Login runs one login transaction: password check, account status, lockout
// window, then either a full session or a pending step-up marker. Every exit
// path writes exactly one journal entry.
func Login(req LoginRequest) (LoginResult, error) {
	rejected := LoginResult{Status: LOGIN_STATUS_REJECTED}

	accountID := umUtils.SanitizeEmail(req.AccountID)
	user, err := credentialStore.GetUserByAccountID(req.InstanceID, accountID)
	if err != nil {
		journalAttempt(req.InstanceID, "", req.Origin, req.UserAgent, false, userTypes.LOGIN_FAILURE_USER_NOT_FOUND)
		return rejected, ErrInvalidCredentials
	}
	userID := user.ID.Hex()

	match, err := pwhash.ComparePasswordWithHash(user.Account.Password, req.Password)
	if err != nil || !match {
		journalAttempt(req.InstanceID, userID, req.Origin, req.UserAgent, false, userTypes.LOGIN_FAILURE_INVALID_CREDENTIALS)
		return rejected, ErrInvalidCredentials
	}

	if !user.IsActive() {
		journalAttempt(req.InstanceID, userID, req.Origin, req.UserAgent, false, userTypes.LOGIN_FAILURE_ACCOUNT_INACTIVE)
		return rejected, ErrAccountInactive
	}

	failures, err := attemptJournal.CountRecentFailedAttempts(req.InstanceID, userID, time.Now().Add(-LOGIN_FAILURE_WINDOW))
	if err != nil {
		slog.Error("could not count recent failed login attempts", slog.String("instanceID", req.InstanceID), slog.String("error", err.Error()))
		return rejected, err
	}
	if failures >= int64(user.SecurityPolicy.MaxLoginAttempts) {
		journalAttempt(req.InstanceID, userID, req.Origin, req.UserAgent, false, userTypes.LOGIN_FAILURE_TOO_MANY_ATTEMPTS)
		return LoginResult{Status: LOGIN_STATUS_LOCKED_OUT}, ErrTooManyAttempts
	}

	if user.HasPin() {
		token, err := umUtils.GenerateUniqueTokenString()
		if err != nil {
			return rejected, err
		}
		pending := userTypes.PendingAuth{
			Token:     token,
			UserID:    userID,
			CreatedAt: time.Now(),
			ExpiresAt: umUtils.GetExpirationTime(PENDING_AUTH_TTL),
		}
		if err := pendingAuthStore.CreatePendingAuth(req.InstanceID, pending); err != nil {
			return rejected, err
		}
		// password accepted, session not yet established
		journalAttempt(req.InstanceID, userID, req.Origin, req.UserAgent, true, "")
		return LoginResult{Status: LOGIN_STATUS_AWAITING_STEP_UP, PendingToken: token}, nil
	}

	journalAttempt(req.InstanceID, userID, req.Origin, req.UserAgent, true, "")
	if err := credentialStore.RecordSuccessfulLogin(req.InstanceID, userID, req.Origin); err != nil {
		slog.Warn("could not update login infos for user", slog.String("userID", userID), slog.String("error", err.Error()))
	}
	return LoginResult{Status: LOGIN_STATUS_AUTHENTICATED, User: user}, nil
}

// VerifyPin completes a pending login transaction. A PIN mismatch keeps the
// marker alive so the caller may retry; the lockout counter from Login is the
// only cap on retries.
func VerifyPin(instanceID string, pendingToken string, pin string, origin string, userAgent string) (LoginResult, error) {
	rejected := LoginResult{Status: LOGIN_STATUS_REJECTED}

	pending, err := pendingAuthStore.GetPendingAuth(instanceID, pendingToken)
	if err != nil {
		return rejected, ErrPendingAuthNotFound
	}
	if pending.IsExpired() {
		if err := pendingAuthStore.DeletePendingAuth(instanceID, pendingToken); err != nil {
			slog.Warn("could not delete expired pending auth", slog.String("error", err.Error()))
		}
		return rejected, ErrPendingAuthNotFound
	}

	user, err := credentialStore.GetUser(instanceID, pending.UserID)
	if err != nil {
		return rejected, ErrPendingAuthNotFound
	}

	if subtle.ConstantTimeCompare([]byte(user.Profile.PIN), []byte(pin)) != 1 {
		journalAttempt(instanceID, pending.UserID, origin, userAgent, false, userTypes.LOGIN_FAILURE_INVALID_PIN)
		return LoginResult{Status: LOGIN_STATUS_AWAITING_STEP_UP, PendingToken: pendingToken}, ErrInvalidPin
	}

	journalAttempt(instanceID, pending.UserID, origin, userAgent, true, "")
	if err := pendingAuthStore.DeletePendingAuth(instanceID, pendingToken); err != nil {
		slog.Warn("could not delete pending auth", slog.String("error", err.Error()))
	}
	if err := credentialStore.RecordSuccessfulLogin(instanceID, pending.UserID, origin); err != nil {
		slog.Warn("could not update login infos for user", slog.String("userID", pending.UserID), slog.String("error", err.Error()))
	}
	return LoginResult{Status: LOGIN_STATUS_AUTHENTICATED, User: user}, nil
}

// journalAttempt appends one entry to the login attempt journal. Journal
// writes must not fail the transaction, errors are only logged.
func journalAttempt(instanceID string, userID string, origin string, userAgent string, success bool, reason string) {
	err := attemptJournal.SaveLoginAttempt(instanceID, userTypes.LoginAttempt{
		UserID:    userID,
		Timestamp: time.Now(),
		Origin:    origin,
		UserAgent: userAgent,
		Success:   success,
		Reason:    reason,
	})
	if err != nil {
		slog.Error("could not save login attempt", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
	}
}

// GetLoginHistory exposes the journal for the account's own audit view.
func GetLoginHistory(instanceID string, userID string, limit int64) ([]userTypes.LoginAttempt, error) {
	return attemptJournal.GetLoginHistory(instanceID, userID, limit)
}
