package messaging

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
)

// AddToSentEmails keeps only metadata about the delivery, never the content.
func (dbService *MessagingDBService) AddToSentEmails(instanceID string, userID string, messageType string) (messagingTypes.SentEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	sent := messagingTypes.SentEmail{
		UserID:      userID,
		MessageType: messageType,
		SentAt:      time.Now().UTC(),
	}

	res, err := dbService.collectionSentEmails(instanceID).InsertOne(ctx, sent)
	if err != nil {
		return sent, err
	}
	sent.ID = res.InsertedID.(primitive.ObjectID)
	return sent, nil
}
