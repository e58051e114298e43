package main

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/OdamboMichael/ims.xp/pkg/db"
	"github.com/OdamboMichael/ims.xp/pkg/utils"

	accountDB "github.com/OdamboMichael/ims.xp/pkg/db/account"
	globalinfosDB "github.com/OdamboMichael/ims.xp/pkg/db/global-infos"
	institutionDB "github.com/OdamboMichael/ims.xp/pkg/db/institution"
	messagingDB "github.com/OdamboMichael/ims.xp/pkg/db/messaging"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACCOUNT_DB_USERNAME      = "ACCOUNT_DB_USERNAME"
	ENV_ACCOUNT_DB_PASSWORD      = "ACCOUNT_DB_PASSWORD"
	ENV_INSTITUTION_DB_USERNAME  = "INSTITUTION_DB_USERNAME"
	ENV_INSTITUTION_DB_PASSWORD  = "INSTITUTION_DB_PASSWORD"
	ENV_GLOBAL_INFOS_DB_USERNAME = "GLOBAL_INFOS_DB_USERNAME"
	ENV_GLOBAL_INFOS_DB_PASSWORD = "GLOBAL_INFOS_DB_PASSWORD"
	ENV_MESSAGING_DB_USERNAME    = "MESSAGING_DB_USERNAME"
	ENV_MESSAGING_DB_PASSWORD    = "MESSAGING_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		AccountDB     db.DBConfigYaml `json:"account_db" yaml:"account_db"`
		InstitutionDB db.DBConfigYaml `json:"institution_db" yaml:"institution_db"`
		GlobalInfosDB db.DBConfigYaml `json:"global_infos_db" yaml:"global_infos_db"`
		MessagingDB   db.DBConfigYaml `json:"messaging_db" yaml:"messaging_db"`
	} `json:"db_configs" yaml:"db_configs"`

	InstanceIDs []string `json:"instance_ids" yaml:"instance_ids"`

	// Task configurations
	TaskConfigs TaskConfigs `json:"task_configs" yaml:"task_configs"`
}

type TaskConfigs struct {
	CreateIndexes CreateIndexesConfig `json:"create_indexes" yaml:"create_indexes"`
	GetIndexes    GetIndexesConfig    `json:"get_indexes" yaml:"get_indexes"`
}

type GetIndexesConfig struct {
	AccountDB bool `json:"account_db" yaml:"account_db"`
}

type CreateIndexesConfig struct {
	AccountDB     bool `json:"account_db" yaml:"account_db"`
	InstitutionDB bool `json:"institution_db" yaml:"institution_db"`
	GlobalInfosDB bool `json:"global_infos_db" yaml:"global_infos_db"`
	MessagingDB   bool `json:"messaging_db" yaml:"messaging_db"`
}

var (
	conf config

	accountDBService     *accountDB.AccountDBService
	institutionDBService *institutionDB.InstitutionDBService
	globalInfosDBService *globalinfosDB.GlobalInfosDBService
	messagingDBService   *messagingDB.MessagingDBService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	// Init DBs
	initDBs()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ACCOUNT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AccountDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACCOUNT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AccountDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_INSTITUTION_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.InstitutionDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_INSTITUTION_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.InstitutionDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_GLOBAL_INFOS_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.GlobalInfosDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_GLOBAL_INFOS_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.GlobalInfosDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_MESSAGING_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.MessagingDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_MESSAGING_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.MessagingDB.Password = dbPassword
	}
}

func initDBs() {
	var err error
	accountDBService, err = accountDB.NewAccountDBService(db.DbConfigFromYamlObj(conf.DBConfigs.AccountDB, conf.InstanceIDs))
	if err != nil {
		panic(err)
	}

	institutionDBService, err = institutionDB.NewInstitutionDBService(db.DbConfigFromYamlObj(conf.DBConfigs.InstitutionDB, conf.InstanceIDs))
	if err != nil {
		panic(err)
	}

	globalInfosDBService, err = globalinfosDB.NewGlobalInfosDBService(db.DbConfigFromYamlObj(conf.DBConfigs.GlobalInfosDB, conf.InstanceIDs))
	if err != nil {
		panic(err)
	}

	messagingDBService, err = messagingDB.NewMessagingDBService(db.DbConfigFromYamlObj(conf.DBConfigs.MessagingDB, conf.InstanceIDs))
	if err != nil {
		panic(err)
	}
}
