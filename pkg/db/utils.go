package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func DbConfigFromYamlObj(yamlObj DBConfigYaml, instanceIDs []string) DBConfig {
	connStr := yamlObj.ConnectionStr
	username := yamlObj.Username
	password := yamlObj.Password
	prefix := yamlObj.ConnectionPrefix

	if connStr == "" {
		panic("DB connection string is empty")
	}

	var uri string
	if username != "" && password != "" {
		uri = fmt.Sprintf(`mongodb%s://%s:%s@%s`, prefix, username, password, connStr)
	} else {
		uri = fmt.Sprintf(`mongodb%s://%s`, prefix, connStr)
	}

	return DBConfig{
		URI:              uri,
		DBNamePrefix:     yamlObj.DBNamePrefix,
		Timeout:          yamlObj.Timeout,
		NoCursorTimeout:  yamlObj.UseNoCursorTimeout,
		MaxPoolSize:      uint64(yamlObj.MaxPoolSize),
		IdleConnTimeout:  yamlObj.IdleConnTimeout,
		InstanceIDs:      instanceIDs,
		RunIndexCreation: yamlObj.RunIndexCreation,
	}
}

func ListCollectionIndexes(ctx context.Context, collection *mongo.Collection) ([]bson.M, error) {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == 26 {
			return []bson.M{}, nil
		}
		return nil, err
	}
	defer cursor.Close(ctx)

	indexes := []bson.M{}
	if err = cursor.All(ctx, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}
