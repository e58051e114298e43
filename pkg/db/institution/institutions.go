package institution

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	userTypes "github.com/OdamboMichael/ims.xp/pkg/user-management/types"
)

func (dbService *InstitutionDBService) CreateIndexForInstitutions(instanceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionInstitutions(instanceID).Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "name", Value: 1},
				},
			},
		},
	)
	return err
}

func (dbService *InstitutionDBService) CreateInstitution(instanceID string, inst userTypes.Institution) (userTypes.Institution, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	inst.ID = primitive.NilObjectID
	inst.CreatedAt = time.Now().Unix()
	res, err := dbService.collectionInstitutions(instanceID).InsertOne(ctx, inst)
	if err != nil {
		return inst, err
	}
	inst.ID = res.InsertedID.(primitive.ObjectID)
	return inst, nil
}

func (dbService *InstitutionDBService) GetInstitutionByID(instanceID string, institutionID string) (userTypes.Institution, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(institutionID)
	if err != nil {
		return userTypes.Institution{}, err
	}

	var inst userTypes.Institution
	err = dbService.collectionInstitutions(instanceID).FindOne(ctx, bson.M{"_id": _id}).Decode(&inst)
	return inst, err
}

func (dbService *InstitutionDBService) InstitutionEmailInUse(instanceID string, email string) (bool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	count, err := dbService.collectionInstitutions(instanceID).CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	return count > 0, err
}

func (dbService *InstitutionDBService) UpdateInstitution(instanceID string, inst userTypes.Institution) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	inst.UpdatedAt = time.Now().Unix()
	res, err := dbService.collectionInstitutions(instanceID).ReplaceOne(ctx, bson.M{"_id": inst.ID}, inst)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("institution not found")
	}
	return nil
}

func (dbService *InstitutionDBService) DeleteInstitution(instanceID string, institutionID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(institutionID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionInstitutions(instanceID).DeleteOne(ctx, bson.M{"_id": _id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("institution not found")
	}
	return nil
}
