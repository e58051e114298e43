package institution

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
	COLLECTION_NAME_INSTITUTIONS = "institutions"
)

type InstitutionDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewInstitutionDBService(configs db.DBConfig) (*InstitutionDBService, error) {
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

	instDBSc := &InstitutionDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}

	return instDBSc, nil
}

func (dbService *InstitutionDBService) getDBName(instanceID string) string {
	return dbService.DBNamePrefix + instanceID + "_institutions"
}

func (dbService *InstitutionDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *InstitutionDBService) collectionInstitutions(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_INSTITUTIONS)
}

func (dbService *InstitutionDBService) CreateDefaultIndexes() {
	for _, instanceID := range dbService.InstanceIDs {
		if err := dbService.CreateIndexForInstitutions(instanceID); err != nil {
			slog.Error("Error creating indexes for institutions", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
		}
	}
}
