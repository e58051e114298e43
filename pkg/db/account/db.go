package account

import (
	"context"
	"time"

	"github.com/OdamboMichael/ims.xp/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_USERS          = "users"
	COLLECTION_NAME_OTPS           = "otps"
	COLLECTION_NAME_LOGIN_ATTEMPTS = "loginAttempts"
	COLLECTION_NAME_PENDING_AUTH   = "pendingAuth"
)

type AccountDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewAccountDBService(configs db.DBConfig) (*AccountDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	adbSc := &AccountDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}
	return adbSc, nil
}

func (dbService *AccountDBService) getDBName(instanceID string) string {
	return dbService.DBNamePrefix + instanceID + "_accounts"
}

func (dbService *AccountDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *AccountDBService) collectionUsers(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_USERS)
}

func (dbService *AccountDBService) collectionOTPs(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_OTPS)
}

func (dbService *AccountDBService) collectionLoginAttempts(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_LOGIN_ATTEMPTS)
}

func (dbService *AccountDBService) collectionPendingAuth(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_PENDING_AUTH)
}

func (dbService *AccountDBService) CreateDefaultIndexes() {
	for _, instanceID := range dbService.InstanceIDs {
		dbService.CreateIndexForUsers(instanceID)
		dbService.CreateIndexForOTPs(instanceID)
		dbService.CreateIndexForLoginAttempts(instanceID)
		dbService.CreateIndexForPendingAuth(instanceID)
	}
}

// GetIndexes lists the current index definitions per collection.
func (dbService *AccountDBService) GetIndexes(instanceID string) (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collections := map[string]*mongo.Collection{
		COLLECTION_NAME_USERS:          dbService.collectionUsers(instanceID),
		COLLECTION_NAME_OTPS:           dbService.collectionOTPs(instanceID),
		COLLECTION_NAME_LOGIN_ATTEMPTS: dbService.collectionLoginAttempts(instanceID),
		COLLECTION_NAME_PENDING_AUTH:   dbService.collectionPendingAuth(instanceID),
	}

	indexes := map[string][]bson.M{}
	for name, collection := range collections {
		collectionIndexes, err := db.ListCollectionIndexes(ctx, collection)
		if err != nil {
			return nil, err
		}
		indexes[name] = collectionIndexes
	}
	return indexes, nil
}
