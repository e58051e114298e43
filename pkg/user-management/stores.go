package usermanagement

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

// The orchestrator talks to persistence through these contracts. The account
// DB service satisfies all of them; tests substitute in-memory stores.

type CredentialStore interface {
	AddUser(instanceID string, user userTypes.User) (string, error)
	GetUser(instanceID string, userID string) (userTypes.User, error)
	GetUserByAccountID(instanceID string, accountID string) (userTypes.User, error)
	AccountIDExists(instanceID string, accountID string) (bool, error)
	DeleteUser(instanceID string, userID string) error
	RecordSuccessfulLogin(instanceID string, userID string, origin string) error
	SetProfilePin(instanceID string, userID string, pin string) error
	UpdateSecurityPolicy(instanceID string, userID string, policy userTypes.SecurityPolicy) error
	ConfirmAccountEmail(instanceID string, userID string) error
}

type OtpStore interface {
	CreateOTP(instanceID string, otp userTypes.OtpRecord) (userTypes.OtpRecord, error)
	GetLatestUnusedOTP(instanceID string, userID string, purpose userTypes.OtpPurpose) (userTypes.OtpRecord, error)
	MarkOTPUsed(instanceID string, otpID primitive.ObjectID) error
	UnmarkOTPUsed(instanceID string, otpID primitive.ObjectID) error
	CountRecentOTPs(instanceID string, userID string, purpose userTypes.OtpPurpose, since time.Time) (int64, error)
}

type AttemptJournal interface {
	SaveLoginAttempt(instanceID string, attempt userTypes.LoginAttempt) error
	CountRecentFailedAttempts(instanceID string, userID string, since time.Time) (int64, error)
	GetLoginHistory(instanceID string, userID string, limit int64) ([]userTypes.LoginAttempt, error)
}

type PendingAuthStore interface {
	CreatePendingAuth(instanceID string, pending userTypes.PendingAuth) error
	GetPendingAuth(instanceID string, token string) (userTypes.PendingAuth, error)
	DeletePendingAuth(instanceID string, token string) error
}

type InstitutionStore interface {
	CreateInstitution(instanceID string, inst userTypes.Institution) (userTypes.Institution, error)
	GetInstitutionByID(instanceID string, institutionID string) (userTypes.Institution, error)
	InstitutionEmailInUse(instanceID string, email string) (bool, error)
	DeleteInstitution(instanceID string, institutionID string) error
}
