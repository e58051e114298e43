package usermanagement

import (
	"log/slog"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

// RequestStepUpOTP issues an emailed step_up_login code for a pending login
// transaction, as an alternative to the PIN when two-factor is enabled.
func RequestStepUpOTP(
	instanceID string,
	pendingToken string,
	origin string,
	sendCode func(user userTypes.User, code string) error,
) error {
	pending, err := pendingAuthStore.GetPendingAuth(instanceID, pendingToken)
	if err != nil || pending.IsExpired() {
		return ErrPendingAuthNotFound
	}

	user, err := credentialStore.GetUser(instanceID, pending.UserID)
	if err != nil {
		return ErrPendingAuthNotFound
	}
	if !user.SecurityPolicy.TwoFactorEnabled {
		return ErrInvalidCredentials
	}

	otp, err := IssueOTP(instanceID, pending.UserID, userTypes.OtpPurposeStepUpLogin, origin)
	if err != nil {
		return err
	}
	return sendCode(user, otp.Code)
}

// VerifyStepUpOTP completes a pending login transaction with an emailed code
// instead of the PIN. A wrong code keeps the marker alive, mirroring VerifyPin.
func VerifyStepUpOTP(instanceID string, pendingToken string, code string, origin string, userAgent string) (LoginResult, error) {
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

	if err := RedeemOTP(instanceID, pending.UserID, userTypes.OtpPurposeStepUpLogin, code); err != nil {
		journalAttempt(instanceID, pending.UserID, origin, userAgent, false, userTypes.LOGIN_FAILURE_INVALID_CODE)
		return LoginResult{Status: LOGIN_STATUS_AWAITING_STEP_UP, PendingToken: pendingToken}, err
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
