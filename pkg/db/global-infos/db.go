package globalinfos

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/OdamboMichael/ims.xp/pkg/db"
)

// collection names
const (
	COLLECTION_NAME_BLOCKED_JWTS = "blocked-jwts"
)

type GlobalInfosDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewGlobalInfosDBService(configs db.DBConfig) (*GlobalInfosDBService, error) {
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

	giDBSc := &GlobalInfosDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}

	giDBSc.ensureIndexes()
	return giDBSc, nil
}

func (dbService *GlobalInfosDBService) getDBName() string {
	return dbService.DBNamePrefix + "global-infos"
}

func (dbService *GlobalInfosDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *GlobalInfosDBService) collectionBlockedJwts() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_BLOCKED_JWTS)
}

func (dbService *GlobalInfosDBService) ensureIndexes() {
	slog.Debug("Ensuring indexes for global infos DB")

	dbService.CreateDefaultIndexesForBlockedJwtsCollection()
}
