package usermanagement

import (
	"errors"
	"log/slog"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	umUtils "github.com/OdamboMichael/ims.xp/pkg/user-management/utils"
)

// InitiatePinReset issues a pin_reset code for a known identity and hands it
// to the delivery callback. Callers should hide a not-found outcome from the
// client to avoid account enumeration.
func InitiatePinReset(
	instanceID string,
	accountID string,
	origin string,
	sendCode func(user userTypes.User, code string) error,
) error {
	user, err := credentialStore.GetUserByAccountID(instanceID, umUtils.SanitizeEmail(accountID))
	if err != nil {
		return ErrInvalidCredentials
	}

	otp, err := IssueOTP(instanceID, user.ID.Hex(), userTypes.OtpPurposePinReset, origin)
	if err != nil {
		return err
	}

	return sendCode(user, otp.Code)
}

// CompletePinReset redeems the code and overwrites the profile PIN. The two
// writes must apply together: if the PIN update fails the redemption is
// reverted so the code stays usable.
func CompletePinReset(
	instanceID string,
	accountID string,
	code string,
	newPin string,
) error {
	if !umUtils.CheckPinFormat(newPin) {
		return errors.New("invalid PIN format")
	}

	user, err := credentialStore.GetUserByAccountID(instanceID, umUtils.SanitizeEmail(accountID))
	if err != nil {
		return ErrInvalidCredentials
	}
	userID := user.ID.Hex()

	otp, err := redeemOTPRecord(instanceID, userID, userTypes.OtpPurposePinReset, code)
	if err != nil {
		return err
	}

	if err := credentialStore.SetProfilePin(instanceID, userID, newPin); err != nil {
		if revertErr := otpStore.UnmarkOTPUsed(instanceID, otp.ID); revertErr != nil {
			slog.Error("could not revert OTP redemption after failed PIN update",
				slog.String("userID", userID), slog.String("error", revertErr.Error()))
		}
		return err
	}
	return nil
}
