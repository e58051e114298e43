package types

const (
	ACCOUNT_STATUS_ACTIVE   = "active"
	ACCOUNT_STATUS_INACTIVE = "inactive"
)

type Account struct {
	AccountID          string `bson:"accountID" json:"accountID"` // email used for login
	Password           string `bson:"password" json:"-"`          // argon2id hash
	Status             string `bson:"status" json:"status"`
	AccountConfirmedAt int64  `bson:"accountConfirmedAt" json:"accountConfirmedAt"`
	PreferredLanguage  string `bson:"preferredLanguage" json:"preferredLanguage"`
}
