package usermanagement

import (
	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

// RequestEmailVerification issues a fresh email_verification code for the user.
func RequestEmailVerification(
	instanceID string,
	userID string,
	origin string,
	sendCode func(user userTypes.User, code string) error,
) error {
	user, err := credentialStore.GetUser(instanceID, userID)
	if err != nil {
		return err
	}

	otp, err := IssueOTP(instanceID, userID, userTypes.OtpPurposeEmailVerification, origin)
	if err != nil {
		return err
	}
	return sendCode(user, otp.Code)
}

// ConfirmEmail redeems an email_verification code and flags the account email
// as verified.
func ConfirmEmail(instanceID string, userID string, code string) error {
	if err := RedeemOTP(instanceID, userID, userTypes.OtpPurposeEmailVerification, code); err != nil {
		return err
	}
	return credentialStore.ConfirmAccountEmail(instanceID, userID)
}

// UpdateSecurityPolicy validates the new policy bounds before it is persisted.
func UpdateSecurityPolicy(instanceID string, userID string, policy userTypes.SecurityPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	return credentialStore.UpdateSecurityPolicy(instanceID, userID, policy)
}

// DeleteAccount removes the user document; credential, profile and security
// policy go away together. The journal and OTP history are retained.
func DeleteAccount(
	instanceID string,
	userID string,
	sendNotification func(user userTypes.User) error,
) error {
	user, err := credentialStore.GetUser(instanceID, userID)
	if err != nil {
		return err
	}

	if err := credentialStore.DeleteUser(instanceID, userID); err != nil {
		return err
	}

	return sendNotification(user)
}
