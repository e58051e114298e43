package main

import (
	"encoding/json"
	"log/slog"
)

func main() {
	createIndexes()

	getIndexes()

	slog.Info("DB migration finished")
}

func createIndexes() {
	if conf.TaskConfigs.CreateIndexes.AccountDB {
		accountDBService.CreateDefaultIndexes()
	}

	if conf.TaskConfigs.CreateIndexes.InstitutionDB {
		institutionDBService.CreateDefaultIndexes()
	}

	if conf.TaskConfigs.CreateIndexes.GlobalInfosDB {
		globalInfosDBService.CreateDefaultIndexesForBlockedJwtsCollection()
	}

	if conf.TaskConfigs.CreateIndexes.MessagingDB {
		messagingDBService.CreateDefaultIndexes()
	}
}

func getIndexes() {
	if !conf.TaskConfigs.GetIndexes.AccountDB {
		return
	}

	for _, instanceID := range conf.InstanceIDs {
		indexes, err := accountDBService.GetIndexes(instanceID)
		if err != nil {
			slog.Error("Failed to list account DB indexes", slog.String("instanceID", instanceID), slog.String("error", err.Error()))
			continue
		}
		for collection, collectionIndexes := range indexes {
			encoded, err := json.Marshal(collectionIndexes)
			if err != nil {
				slog.Error("Failed to encode index infos", slog.String("collection", collection), slog.String("error", err.Error()))
				continue
			}
			slog.Info("Account DB indexes", slog.String("instanceID", instanceID), slog.String("collection", collection), slog.String("indexes", string(encoded)))
		}
	}
}
