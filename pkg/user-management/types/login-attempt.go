package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// failure reasons as written into the journal
const (
	LOGIN_FAILURE_USER_NOT_FOUND      = "user not found"
	LOGIN_FAILURE_INVALID_CREDENTIALS = "invalid credentials"
	LOGIN_FAILURE_ACCOUNT_INACTIVE    = "account inactive"
	LOGIN_FAILURE_TOO_MANY_ATTEMPTS   = "too many failed attempts"
	LOGIN_FAILURE_INVALID_PIN         = "invalid PIN"
	LOGIN_FAILURE_INVALID_CODE        = "invalid verification code"
)

// LoginAttempt is an append-only journal entry. Entries are never mutated and
// never deleted by the authentication flow.
type LoginAttempt struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userID,omitempty" json:"userID"` // empty when the identity was unknown
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Origin    string             `bson:"origin,omitempty" json:"origin"`
	UserAgent string             `bson:"userAgent,omitempty" json:"userAgent"`
	Success   bool               `bson:"success" json:"success"`
	Reason    string             `bson:"reason,omitempty" json:"reason"`
}
