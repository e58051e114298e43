package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OtpPurpose string

const (
	OtpPurposePinReset          OtpPurpose = "pin_reset"
	OtpPurposeEmailVerification OtpPurpose = "email_verification"
	OtpPurposeStepUpLogin       OtpPurpose = "step_up_login"
)

// OtpRecord is a time-boxed, single-use code bound to one account and purpose.
// Records are never deleted by the authentication flow; a newer record for the
// same purpose makes older unused ones stale (the latest one is authoritative).
type OtpRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userID" json:"userID"`
	Purpose   OtpPurpose         `bson:"purpose" json:"purpose"`
	Code      string             `bson:"code" json:"code"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	Used      bool               `bson:"used" json:"used"`
	Origin    string             `bson:"origin,omitempty" json:"origin"`
}

// IsValid - a record can be redeemed iff it was not used yet and did not expire.
// Expiry is evaluated lazily here, there is no stored state transition for it.
func (o OtpRecord) IsValid() bool {
	return !o.Used && time.Now().Before(o.ExpiresAt)
}
