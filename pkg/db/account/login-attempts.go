package account

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func (dbService *AccountDBService) CreateIndexForLoginAttempts(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionLoginAttempts(instanceID).Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "userID", Value: 1},
					{Key: "timestamp", Value: -1},
				},
			},
			{
				Keys: bson.D{
					{Key: "timestamp", Value: 1},
				},
				Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60),
			},
		},
	)
	return err
}

func (dbService *AccountDBService) SaveLoginAttempt(instanceID string, attempt userTypes.LoginAttempt) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	attempt.ID = primitive.NilObjectID
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now()
	}
	_, err := dbService.collectionLoginAttempts(instanceID).InsertOne(ctx, attempt)
	return err
}

// CountRecentFailedAttempts counts journalled failures for the user inside the
// sliding window. A success inside the window does not reset the count.
func (dbService *AccountDBService) CountRecentFailedAttempts(instanceID string, userID string, since time.Time) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"userID":    userID,
		"success":   false,
		"timestamp": bson.M{"$gt": since},
	}
	return dbService.collectionLoginAttempts(instanceID).CountDocuments(ctx, filter)
}

func (dbService *AccountDBService) GetLoginHistory(instanceID string, userID string, limit int64) ([]userTypes.LoginAttempt, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetNoCursorTimeout(dbService.noCursorTimeout)

	cursor, err := dbService.collectionLoginAttempts(instanceID).Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	attempts := []userTypes.LoginAttempt{}
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}
