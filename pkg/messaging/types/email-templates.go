package types

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	EMAIL_TYPE_WELCOME                = "welcome"
	EMAIL_TYPE_VERIFY_EMAIL           = "verify-email"
	EMAIL_TYPE_AUTH_VERIFICATION_CODE = "verification-code"
	EMAIL_TYPE_PIN_RESET              = "pin-reset"
	EMAIL_TYPE_PIN_CHANGED            = "pin-changed"
	EMAIL_TYPE_LOGIN_NOTIFICATION     = "login-notification"
	EMAIL_TYPE_ACCOUNT_DELETED        = "account-deleted"
)

type EmailTemplate struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id,omitempty"`
	MessageType     string              `bson:"messageType" json:"messageType"`
	DefaultLanguage string              `bson:"defaultLanguage" json:"defaultLanguage"`
	HeaderOverrides *HeaderOverrides    `bson:"headerOverrides" json:"headerOverrides"`
	Translations    []LocalizedTemplate `bson:"translations" json:"translations"`
}

type HeaderOverrides struct {
	From      string   `bson:"from" json:"from"`
	Sender    string   `bson:"sender" json:"sender"`
	ReplyTo   []string `bson:"replyTo" json:"replyTo"`
	NoReplyTo bool     `bson:"noReplyTo" json:"noReplyTo"`
}

type LocalizedTemplate struct {
	Lang        string `bson:"languageCode" json:"lang"`
	Subject     string `bson:"subject" json:"subject"`
	TemplateDef string `bson:"templateDef" json:"templateDef"`
}
