package utils

import (
	"time"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InitNewUser assembles a fresh user document. Credential, profile and security
// policy are part of one document, so account creation always produces all
// three together.
func InitNewUser(
	email string,
	passwordHash string,
	pin string,
	role string,
	institutionID primitive.ObjectID,
	locale string,
) userTypes.User {
	return userTypes.User{
		Account: userTypes.Account{
			AccountID:         email,
			Password:          passwordHash,
			Status:            userTypes.ACCOUNT_STATUS_ACTIVE,
			PreferredLanguage: locale,
		},
		Profile: userTypes.Profile{
			PIN:           pin,
			Role:          role,
			InstitutionID: institutionID,
		},
		SecurityPolicy: userTypes.DefaultSecurityPolicy(),
		Timestamps: userTypes.Timestamps{
			CreatedAt: time.Now().Unix(),
		},
	}
}
