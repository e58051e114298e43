package types

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	INSTITUTION_TYPE_GOVERNMENT  = "government"
	INSTITUTION_TYPE_NGO         = "ngo"
	INSTITUTION_TYPE_COOPERATIVE = "cooperative"
	INSTITUTION_TYPE_PRIVATE     = "private"
	INSTITUTION_TYPE_RESEARCH    = "research"
	INSTITUTION_TYPE_ASSOCIATION = "association"

	CLUSTERS_COUNT_MIN = 1
	CLUSTERS_COUNT_MAX = 100
)

// Institution is the organisation an account belongs to, created together with
// the first account during registration.
type Institution struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	InstitutionType    string             `bson:"institutionType" json:"institutionType"`
	RegistrationNumber string             `bson:"registrationNumber,omitempty" json:"registrationNumber"`
	Country            string             `bson:"country" json:"country"`
	Constituency       string             `bson:"constituency" json:"constituency"`
	Ward               string             `bson:"ward" json:"ward"`
	Street             string             `bson:"street" json:"street"`
	Email              string             `bson:"email" json:"email"`
	Phone              string             `bson:"phone,omitempty" json:"phone"`
	ClustersCount      int                `bson:"clustersCount" json:"clustersCount"`
	Verified           bool               `bson:"verified" json:"verified"`
	CreatedAt          int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt          int64              `bson:"updatedAt" json:"updatedAt"`
}

func IsValidInstitutionType(t string) bool {
	switch t {
	case INSTITUTION_TYPE_GOVERNMENT,
		INSTITUTION_TYPE_NGO,
		INSTITUTION_TYPE_COOPERATIVE,
		INSTITUTION_TYPE_PRIVATE,
		INSTITUTION_TYPE_RESEARCH,
		INSTITUTION_TYPE_ASSOCIATION:
		return true
	}
	return false
}

func (i Institution) Validate() error {
	if i.Name == "" {
		return errors.New("institution name is required")
	}
	if !IsValidInstitutionType(i.InstitutionType) {
		return errors.New("invalid institution type")
	}
	if i.Country == "" {
		return errors.New("country is required")
	}
	if i.ClustersCount < CLUSTERS_COUNT_MIN || i.ClustersCount > CLUSTERS_COUNT_MAX {
		return errors.New("clusters count out of bounds")
	}
	return nil
}
