package usermanagement

import (
	"errors"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

// outcomes surfaced to the caller - never thrown as uncontrolled faults
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account inactive")
	ErrTooManyAttempts     = errors.New("too many failed attempts")
	ErrInvalidPin          = errors.New("invalid PIN")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrOtpNotFound         = errors.New("no verification code found")
	ErrOtpExpiredOrUsed    = errors.New("verification code expired or already used")
	ErrPendingAuthNotFound = errors.New("pending authentication not found or expired")
)

type LoginStatus string

const (
	LOGIN_STATUS_REJECTED         LoginStatus = "rejected"
	LOGIN_STATUS_LOCKED_OUT       LoginStatus = "locked_out"
	LOGIN_STATUS_AWAITING_STEP_UP LoginStatus = "awaiting_step_up"
	LOGIN_STATUS_AUTHENTICATED    LoginStatus = "authenticated"
)

// LoginResult is the discriminated outcome of one login transaction. User is
// populated only on Authenticated; PendingToken only on AwaitingStepUp - the
// caller holds the token and presents it back on the step-up call.
type LoginResult struct {
	Status       LoginStatus
	User         userTypes.User
	PendingToken string
}
