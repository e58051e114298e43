package types

import "time"

// PendingAuth marks a login transaction whose password check passed but whose
// PIN step-up is still outstanding. The token is opaque, caller-held and
// presented back on the step-up call; no session exists until then.
type PendingAuth struct {
	Token     string    `bson:"token" json:"token"`
	UserID    string    `bson:"userID" json:"userID"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
}

func (p PendingAuth) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}
