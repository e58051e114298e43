package usermanagement

import (
	"crypto/subtle"
	"time"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

const (
	OTP_LIFETIME = 10 * time.Minute

	// issuance throttle per user and purpose
	OTP_ISSUE_LIMIT          = 5
	OTP_ISSUE_LIMIT_INTERVAL = time.Hour
)

// IssueOTP creates and persists a fresh code for the user and purpose. Older
// unused codes of the same purpose are not invalidated; they simply stop being
// authoritative because redemption only consults the latest one.
func IssueOTP(instanceID string, userID string, purpose userTypes.OtpPurpose, origin string) (userTypes.OtpRecord, error) {
	count, err := otpStore.CountRecentOTPs(instanceID, userID, purpose, time.Now().Add(-OTP_ISSUE_LIMIT_INTERVAL))
	if err != nil {
		return userTypes.OtpRecord{}, err
	}
	if count >= OTP_ISSUE_LIMIT {
		return userTypes.OtpRecord{}, ErrTooManyAttempts
	}

	code, err := umUtils.GenerateOTPCode()
	if err != nil {
		return userTypes.OtpRecord{}, err
	}

	otp := userTypes.OtpRecord{
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		CreatedAt: time.Now(),
		ExpiresAt: umUtils.GetExpirationTime(OTP_LIFETIME),
		Used:      false,
		Origin:    origin,
	}
	return otpStore.CreateOTP(instanceID, otp)
}

// RedeemOTP validates and consumes the latest unused code for the user and
// purpose. Marking the record used is a compare-and-set, so a replay of the
// same code cannot succeed twice.
func RedeemOTP(instanceID string, userID string, purpose userTypes.OtpPurpose, code string) error {
	_, err := redeemOTPRecord(instanceID, userID, purpose, code)
	return err
}

// redeemOTPRecord returns the consumed record so callers that pair redemption
// with a follow-up write can revert it on failure.
func redeemOTPRecord(instanceID string, userID string, purpose userTypes.OtpPurpose, code string) (userTypes.OtpRecord, error) {
	otp, err := otpStore.GetLatestUnusedOTP(instanceID, userID, purpose)
	if err != nil {
		return userTypes.OtpRecord{}, ErrOtpNotFound
	}

	if !otp.IsValid() {
		return userTypes.OtpRecord{}, ErrOtpExpiredOrUsed
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return userTypes.OtpRecord{}, ErrInvalidCode
	}

	if err := otpStore.MarkOTPUsed(instanceID, otp.ID); err != nil {
		// lost the race against a concurrent redemption
		return userTypes.OtpRecord{}, ErrOtpExpiredOrUsed
	}
	otp.Used = true
	return otp, nil
}
