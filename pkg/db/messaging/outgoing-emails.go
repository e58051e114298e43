package messaging

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
)

func (dbService *MessagingDBService) AddToOutgoingEmails(instanceID string, email messagingTypes.OutgoingEmail) (messagingTypes.OutgoingEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if email.AddedAt <= 0 {
		email.AddedAt = time.Now().Unix()
	}

	email.ID = primitive.NilObjectID
	res, err := dbService.collectionOutgoingEmails(instanceID).InsertOne(ctx, email)
	if err != nil {
		return email, err
	}
	email.ID = res.InsertedID.(primitive.ObjectID)
	return email, nil
}

func (dbService *MessagingDBService) DeleteOutgoingEmail(instanceID string, id string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = dbService.collectionOutgoingEmails(instanceID).DeleteOne(ctx, bson.M{"_id": _id})
	return err
}

// FetchOutgoingEmails returns the oldest queued emails, high priority first.
func (dbService *MessagingDBService) FetchOutgoingEmails(instanceID string, limit int64) ([]messagingTypes.OutgoingEmail, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "highPrio", Value: -1}, {Key: "addedAt", Value: 1}}).
		SetLimit(limit).
		SetNoCursorTimeout(dbService.noCursorTimeout)

	cursor, err := dbService.collectionOutgoingEmails(instanceID).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	emails := []messagingTypes.OutgoingEmail{}
	if err := cursor.All(ctx, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}
