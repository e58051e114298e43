package usermanagement

import (
	"errors"
	"log/slog"

	"github.com/OdamboMichael/ims.xp/pkg/user-management/pwhash"
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

type RegistrationRequest struct {
	InstanceID  string
	Email       string
	Password    string
	Pin         string
	Role        string
	Locale      string
	Origin      string
	Institution userTypes.Institution
}

// RegisterInstitutionAccount creates the institution and its first account in
// one operation. Credential, profile and security policy live in one document,
// so they always come into existence together; if the account insert fails the
// fresh institution is removed again.
func RegisterInstitutionAccount(
	req RegistrationRequest,
	sendVerificationCode func(user userTypes.User, code string) error,
) (userTypes.User, error) {
	email := umUtils.SanitizeEmail(req.Email)
	if !umUtils.CheckEmailFormat(email) {
		return userTypes.User{}, errors.New("invalid email format")
	}
	if !umUtils.CheckPasswordFormat(req.Password) {
		return userTypes.User{}, errors.New("password too weak")
	}
	if req.Pin != "" && !umUtils.CheckPinFormat(req.Pin) {
		return userTypes.User{}, errors.New("invalid PIN format")
	}
	if !userTypes.IsValidRole(req.Role) {
		return userTypes.User{}, errors.New("invalid role")
	}
	if err := req.Institution.Validate(); err != nil {
		return userTypes.User{}, err
	}

	exists, err := credentialStore.AccountIDExists(req.InstanceID, email)
	if err != nil {
		return userTypes.User{}, err
	}
	if exists {
		return userTypes.User{}, errors.New("account already exists")
	}

	inUse, err := institutionStore.InstitutionEmailInUse(req.InstanceID, req.Institution.Email)
	if err != nil {
		return userTypes.User{}, err
	}
	if inUse {
		return userTypes.User{}, errors.New("institution email already in use")
	}

	inst, err := institutionStore.CreateInstitution(req.InstanceID, req.Institution)
	if err != nil {
		return userTypes.User{}, err
	}

	passwordHash, err := pwhash.HashPassword(req.Password)
	if err != nil {
		return userTypes.User{}, err
	}

	user := umUtils.InitNewUser(email, passwordHash, req.Pin, req.Role, inst.ID, req.Locale)
	userID, err := credentialStore.AddUser(req.InstanceID, user)
	if err != nil {
		if rollbackErr := institutionStore.DeleteInstitution(req.InstanceID, inst.ID.Hex()); rollbackErr != nil {
			slog.Error("could not remove institution after failed account creation",
				slog.String("institutionID", inst.ID.Hex()), slog.String("error", rollbackErr.Error()))
		}
		return userTypes.User{}, err
	}

	user, err = credentialStore.GetUser(req.InstanceID, userID)
	if err != nil {
		return userTypes.User{}, err
	}

	otp, err := IssueOTP(req.InstanceID, userID, userTypes.OtpPurposeEmailVerification, req.Origin)
	if err != nil {
		slog.Error("could not issue email verification code", slog.String("userID", userID), slog.String("error", err.Error()))
		return user, nil
	}
	if err := sendVerificationCode(user, otp.Code); err != nil {
		slog.Error("could not send email verification code", slog.String("userID", userID), slog.String("error", err.Error()))
	}
	return user, nil
}
