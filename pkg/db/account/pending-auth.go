package account

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func (dbService *AccountDBService) CreateIndexForPendingAuth(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPendingAuth(instanceID).Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "token", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "expiresAt", Value: 1},
				},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
	)
	return err
}

func (dbService *AccountDBService) CreatePendingAuth(instanceID string, pending userTypes.PendingAuth) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPendingAuth(instanceID).InsertOne(ctx, pending)
	return err
}

func (dbService *AccountDBService) GetPendingAuth(instanceID string, token string) (userTypes.PendingAuth, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var pending userTypes.PendingAuth
	err := dbService.collectionPendingAuth(instanceID).FindOne(ctx, bson.M{"token": token}).Decode(&pending)
	return pending, err
}

// DeletePendingAuth removes the marker once the step-up succeeded or the
// transaction was abandoned. A missing token is not an error here, the TTL
// monitor may have beaten us to it.
func (dbService *AccountDBService) DeletePendingAuth(instanceID string, token string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPendingAuth(instanceID).DeleteOne(ctx, bson.M{"token": token})
	return err
}
