package account

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func (dbService *AccountDBService) CreateIndexForUsers(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionUsers(instanceID).Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "account.accountID", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "timestamps.createdAt", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "profile.institutionID", Value: 1},
				},
			},
		},
	)
	return err
}

func (dbService *AccountDBService) AddUser(instanceID string, user userTypes.User) (string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	user.ID = primitive.NilObjectID
	res, err := dbService.collectionUsers(instanceID).InsertOne(ctx, user)
	if err != nil {
		return "", err
	}
	id := res.InsertedID.(primitive.ObjectID)
	return id.Hex(), nil
}

func (dbService *AccountDBService) GetUser(instanceID string, userID string) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return userTypes.User{}, err
	}

	var user userTypes.User
	err = dbService.collectionUsers(instanceID).FindOne(ctx, bson.M{"_id": _id}).Decode(&user)
	return user, err
}

func (dbService *AccountDBService) GetUserByAccountID(instanceID string, accountID string) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user userTypes.User
	err := dbService.collectionUsers(instanceID).FindOne(ctx, bson.M{"account.accountID": accountID}).Decode(&user)
	return user, err
}

func (dbService *AccountDBService) AccountIDExists(instanceID string, accountID string) (bool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	count, err := dbService.collectionUsers(instanceID).CountDocuments(ctx, bson.M{"account.accountID": accountID}, options.Count().SetLimit(1))
	return count > 0, err
}

func (dbService *AccountDBService) ReplaceUser(instanceID string, user userTypes.User) (userTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	user.Timestamps.UpdatedAt = time.Now().Unix()

	filter := bson.M{"_id": user.ID}
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated userTypes.User
	err := dbService.collectionUsers(instanceID).FindOneAndReplace(ctx, filter, user, opts).Decode(&updated)
	return updated, err
}

// DeleteUser removes the user document - credential, profile and security
// policy go together. OTP records and the login attempt journal are event
// history and stay untouched.
func (dbService *AccountDBService) DeleteUser(instanceID string, userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionUsers(instanceID).DeleteOne(ctx, bson.M{"_id": _id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("user not found")
	}
	return nil
}

// RecordSuccessfulLogin updates the login timestamp and the last known origin address.
func (dbService *AccountDBService) RecordSuccessfulLogin(instanceID string, userID string, origin string) error {
	return dbService.updateUser(instanceID, userID, bson.M{
		"$set": bson.M{
			"timestamps.lastLogin": time.Now().Unix(),
			"profile.lastLoginIP":  origin,
		},
	})
}

func (dbService *AccountDBService) SetProfilePin(instanceID string, userID string, pin string) error {
	return dbService.updateUser(instanceID, userID, bson.M{
		"$set": bson.M{
			"profile.pin":              pin,
			"timestamps.lastPinChange": time.Now().Unix(),
			"timestamps.updatedAt":     time.Now().Unix(),
		},
	})
}

func (dbService *AccountDBService) UpdateSecurityPolicy(instanceID string, userID string, policy userTypes.SecurityPolicy) error {
	return dbService.updateUser(instanceID, userID, bson.M{
		"$set": bson.M{
			"securityPolicy":       policy,
			"timestamps.updatedAt": time.Now().Unix(),
		},
	})
}

func (dbService *AccountDBService) ConfirmAccountEmail(instanceID string, userID string) error {
	return dbService.updateUser(instanceID, userID, bson.M{
		"$set": bson.M{
			"profile.emailVerified":      true,
			"account.accountConfirmedAt": time.Now().Unix(),
		},
	})
}

func (dbService *AccountDBService) updateUser(instanceID string, userID string, update bson.M) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionUsers(instanceID).UpdateOne(ctx, bson.M{"_id": _id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("user not found")
	}
	return nil
}

func (dbService *AccountDBService) CountRecentlyCreatedUsers(instanceID string, interval int64) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"timestamps.createdAt": bson.M{"$gt": time.Now().Unix() - interval}}
	return dbService.collectionUsers(instanceID).CountDocuments(ctx, filter)
}
