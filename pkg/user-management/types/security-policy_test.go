package types

import "testing"

func TestSecurityPolicyValidate(t *testing.T) {
	t.Run("with defaults", func(t *testing.T) {
		if err := DefaultSecurityPolicy().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with session timeout below minimum", func(t *testing.T) {
		p := DefaultSecurityPolicy()
		p.SessionTimeout = 4
		if err := p.Validate(); err == nil {
			t.Error("should be rejected")
		}
	})

	t.Run("with session timeout above maximum", func(t *testing.T) {
		p := DefaultSecurityPolicy()
		p.SessionTimeout = 1441
		if err := p.Validate(); err == nil {
			t.Error("should be rejected")
		}
	})

	t.Run("with max login attempts out of bounds", func(t *testing.T) {
		p := DefaultSecurityPolicy()
		p.MaxLoginAttempts = 0
		if err := p.Validate(); err == nil {
			t.Error("should be rejected")
		}
		p.MaxLoginAttempts = 11
		if err := p.Validate(); err == nil {
			t.Error("should be rejected")
		}
	})

	t.Run("two factor with timeout below floor", func(t *testing.T) {
		p := SecurityPolicy{
			TwoFactorEnabled: true,
			SessionTimeout:   10,
			MaxLoginAttempts: 5,
		}
		if err := p.Validate(); err == nil {
			t.Error("should be rejected")
		}
	})

	t.Run("two factor with timeout at floor", func(t *testing.T) {
		p := SecurityPolicy{
			TwoFactorEnabled: true,
			SessionTimeout:   15,
			MaxLoginAttempts: 5,
		}
		if err := p.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
