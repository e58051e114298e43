package types

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ROLE_ADMIN       = "admin"
	ROLE_MANAGER     = "manager"
	ROLE_ANALYST     = "analyst"
	ROLE_VIEWER      = "viewer"
	ROLE_FIELD_AGENT = "field_agent"
)

type Profile struct {
	// optional short numeric PIN (4-6 digits) for step-up authentication
	PIN string `bson:"pin" json:"-"`

	Role          string             `bson:"role" json:"role"`
	InstitutionID primitive.ObjectID `bson:"institutionID,omitempty" json:"institutionID"`
	Phone         string             `bson:"phone,omitempty" json:"phone"`
	JobTitle      string             `bson:"jobTitle,omitempty" json:"jobTitle"`
	Department    string             `bson:"department,omitempty" json:"department"`
	EmailVerified bool               `bson:"emailVerified" json:"emailVerified"`
	LastLoginIP   string             `bson:"lastLoginIP,omitempty" json:"lastLoginIP"`
}

func IsValidRole(role string) bool {
	switch role {
	case ROLE_ADMIN, ROLE_MANAGER, ROLE_ANALYST, ROLE_VIEWER, ROLE_FIELD_AGENT:
		return true
	}
	return false
}
