package types

import "errors"

const (
	SESSION_TIMEOUT_MIN_MINUTES = 5
	SESSION_TIMEOUT_MAX_MINUTES = 1440

	// with two factor enabled the session timeout must not go below this
	TWO_FACTOR_SESSION_TIMEOUT_FLOOR = 15

	MAX_LOGIN_ATTEMPTS_MIN = 1
	MAX_LOGIN_ATTEMPTS_MAX = 10
)

type SecurityPolicy struct {
	TwoFactorEnabled   bool  `bson:"twoFactorEnabled" json:"twoFactorEnabled"`
	LoginNotifications bool  `bson:"loginNotifications" json:"loginNotifications"`
	SessionTimeout     int   `bson:"sessionTimeout" json:"sessionTimeout"` // minutes
	MaxLoginAttempts   int   `bson:"maxLoginAttempts" json:"maxLoginAttempts"`
	PasswordChangedAt  int64 `bson:"passwordChangedAt" json:"passwordChangedAt"`
}

func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{
		TwoFactorEnabled:   false,
		LoginNotifications: true,
		SessionTimeout:     30,
		MaxLoginAttempts:   5,
	}
}

// Validate checks the policy bounds before it is persisted.
func (p SecurityPolicy) Validate() error {
	if p.SessionTimeout < SESSION_TIMEOUT_MIN_MINUTES || p.SessionTimeout > SESSION_TIMEOUT_MAX_MINUTES {
		return errors.New("session timeout out of bounds")
	}
	if p.MaxLoginAttempts < MAX_LOGIN_ATTEMPTS_MIN || p.MaxLoginAttempts > MAX_LOGIN_ATTEMPTS_MAX {
		return errors.New("max login attempts out of bounds")
	}
	if p.TwoFactorEnabled && p.SessionTimeout < TWO_FACTOR_SESSION_TIMEOUT_FLOOR {
		return errors.New("session timeout too low for two factor authentication")
	}
	return nil
}
