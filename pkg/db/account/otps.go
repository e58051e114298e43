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

func (dbService *AccountDBService) CreateIndexForOTPs(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionOTPs(instanceID).Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "userID", Value: 1},
					{Key: "purpose", Value: 1},
					{Key: "createdAt", Value: -1},
				},
			},
			{
				Keys: bson.D{
					{Key: "expiresAt", Value: 1},
				},
				Options: options.Index().SetExpireAfterSeconds(7 * 24 * 60 * 60),
			},
		},
	)
	return err
}

func (dbService *AccountDBService) CreateOTP(instanceID string, otp userTypes.OtpRecord) (userTypes.OtpRecord, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	otp.ID = primitive.NilObjectID
	res, err := dbService.collectionOTPs(instanceID).InsertOne(ctx, otp)
	if err != nil {
		return otp, err
	}
	otp.ID = res.InsertedID.(primitive.ObjectID)
	return otp, nil
}

// GetLatestUnusedOTP fetches the most recently issued unredeemed code for the
// user and purpose. Older unredeemed codes stay valid but are never consulted:
// only the latest one is authoritative.
func (dbService *AccountDBService) GetLatestUnusedOTP(instanceID string, userID string, purpose userTypes.OtpPurpose) (userTypes.OtpRecord, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"userID":  userID,
		"purpose": purpose,
		"used":    false,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var otp userTypes.OtpRecord
	err := dbService.collectionOTPs(instanceID).FindOne(ctx, filter, opts).Decode(&otp)
	return otp, err
}

// MarkOTPUsed flips the used flag only if the record is still unredeemed, so
// two concurrent redemptions of the same code cannot both succeed.
func (dbService *AccountDBService) MarkOTPUsed(instanceID string, otpID primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionOTPs(instanceID).UpdateOne(
		ctx,
		bson.M{"_id": otpID, "used": false},
		bson.M{"$set": bson.M{"used": true, "usedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount < 1 {
		return errors.New("otp already used")
	}
	return nil
}

// UnmarkOTPUsed reverts a redemption. Used as compensation when the write that
// should have followed the redemption failed.
func (dbService *AccountDBService) UnmarkOTPUsed(instanceID string, otpID primitive.ObjectID) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionOTPs(instanceID).UpdateOne(
		ctx,
		bson.M{"_id": otpID},
		bson.M{"$set": bson.M{"used": false}, "$unset": bson.M{"usedAt": ""}},
	)
	return err
}

func (dbService *AccountDBService) CountRecentOTPs(instanceID string, userID string, purpose userTypes.OtpPurpose, since time.Time) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"userID":    userID,
		"purpose":   purpose,
		"createdAt": bson.M{"$gt": since},
	}
	return dbService.collectionOTPs(instanceID).CountDocuments(ctx, filter)
}
