package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User bundles the credential, the profile and the security policy of one
// account into a single document, so all three are created and deleted together.
type User struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Account        Account        `bson:"account" json:"account"`
	Profile        Profile        `bson:"profile" json:"profile"`
	SecurityPolicy SecurityPolicy `bson:"securityPolicy" json:"securityPolicy"`
	Timestamps     Timestamps     `bson:"timestamps" json:"timestamps"`
}

// HasPin tells whether the account owes a PIN step-up after a password check.
func (u User) HasPin() bool {
	return u.Profile.PIN != ""
}

func (u User) IsActive() bool {
	return u.Account.Status == ACCOUNT_STATUS_ACTIVE
}

type Timestamps struct {
	LastLogin          int64 `bson:"lastLogin" json:"lastLogin"`
	CreatedAt          int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt          int64 `bson:"updatedAt" json:"updatedAt"`
	LastPinChange      int64 `bson:"lastPinChange" json:"lastPinChange"`
	LastPasswordChange int64 `bson:"lastPasswordChange" json:"lastPasswordChange"`
}
