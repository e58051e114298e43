package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	"github.com/OdamboMichael/ims.xp/pkg/apihelpers"
	"github.com/OdamboMichael/ims.xp/pkg/db"
	httpclient "github.com/OdamboMichael/ims.xp/pkg/http-client"
	emailsending "github.com/OdamboMichael/ims.xp/pkg/messaging/email-sending"
	messagingTypes "github.com/OdamboMichael/ims.xp/pkg/messaging/types"
	usermanagement "github.com/OdamboMichael/ims.xp/pkg/user-management"
	"github.com/OdamboMichael/ims.xp/pkg/user-management/pwhash"
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

	ENV_SMTP_BRIDGE_API_KEY = "SMTP_BRIDGE_API_KEY"

	ENV_USER_JWT_SIGN_KEY   = "USER_JWT_SIGN_KEY"
	ENV_USER_JWT_EXPIRES_IN = "USER_JWT_EXPIRES_IN"
)

type AccountsApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		UserJWTConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"user_jwt_config" yaml:"user_jwt_config"`
		MaxNewUsersPer5Minutes int `json:"max_new_users_per_5_minutes" yaml:"max_new_users_per_5_minutes"`
	} `json:"user_management_config" yaml:"user_management_config"`

	AllowedInstanceIDs []string `json:"allowed_instance_ids" yaml:"allowed_instance_ids"`

	// DB configs
	DBConfigs struct {
		AccountDB     db.DBConfigYaml `json:"account_db" yaml:"account_db"`
		InstitutionDB db.DBConfigYaml `json:"institution_db" yaml:"institution_db"`
		GlobalInfosDB db.DBConfigYaml `json:"global_infos_db" yaml:"global_infos_db"`
		MessagingDB   db.DBConfigYaml `json:"messaging_db" yaml:"messaging_db"`
	} `json:"db_configs" yaml:"db_configs"`

	MessagingConfigs messagingTypes.MessagingConfigs `json:"messaging_configs" yaml:"messaging_configs"`
}

var (
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

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init argon2
	pwhash.InitArgonParams(
		conf.UserManagementConfig.PWHashing.Argon2Memory,
		conf.UserManagementConfig.PWHashing.Argon2Iterations,
		conf.UserManagementConfig.PWHashing.Argon2Parallelism,
	)

	// init user management
	initUserManagement()

	// init message sending config
	initMessageSendingConfig()
}

func secretsOverride() {
	if apiKey := os.Getenv(ENV_SMTP_BRIDGE_API_KEY); apiKey != "" {
		conf.MessagingConfigs.SmtpBridgeConfig.APIKey = apiKey
	}

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

	if userJwtSignKey := os.Getenv(ENV_USER_JWT_SIGN_KEY); userJwtSignKey != "" {
		conf.UserManagementConfig.UserJWTConfig.SignKey = userJwtSignKey
	}

	if expInVal := os.Getenv(ENV_USER_JWT_EXPIRES_IN); expInVal != "" {
		expiresIn, err := utils.ParseDurationString(expInVal)
		if err != nil {
			slog.Error("cannot parse token lifetime", slog.String("error", err.Error()), slog.String(ENV_USER_JWT_EXPIRES_IN, expInVal))
			panic(err)
		}
		conf.UserManagementConfig.UserJWTConfig.ExpiresIn = expiresIn
	}
}

func initUserManagement() {
	usermanagement.Init(
		accountDBService,
		accountDBService,
		accountDBService,
		accountDBService,
		institutionDBService,
	)
}

func initMessageSendingConfig() {
	emailsending.InitMessageSendingVariables(
		loadEmailClientHTTPConfig(),
		conf.MessagingConfigs.GlobalEmailTemplateConstants,
		messagingDBService,
	)
}

func loadEmailClientHTTPConfig() *httpclient.ClientConfig {
	clientConfig := &httpclient.ClientConfig{
		RootURL: conf.MessagingConfigs.SmtpBridgeConfig.URL,
		APIKey:  conf.MessagingConfigs.SmtpBridgeConfig.APIKey,
		Timeout: conf.MessagingConfigs.SmtpBridgeConfig.RequestTimeout,
	}
	if conf.MessagingConfigs.SmtpBridgeConfig.MTLS.Use {
		clientConfig.MTLSCertificatePaths = &conf.MessagingConfigs.SmtpBridgeConfig.MTLS.CertificatePaths
	}
	return clientConfig
}

func initDBs() {
	var err error
	accountDBService, err = accountDB.NewAccountDBService(db.DbConfigFromYamlObj(conf.DBConfigs.AccountDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Account DB", slog.String("error", err.Error()))
		return
	}

	institutionDBService, err = institutionDB.NewInstitutionDBService(db.DbConfigFromYamlObj(conf.DBConfigs.InstitutionDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Institution DB", slog.String("error", err.Error()))
		return
	}

	globalInfosDBService, err = globalinfosDB.NewGlobalInfosDBService(db.DbConfigFromYamlObj(conf.DBConfigs.GlobalInfosDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Global Infos DB", slog.String("error", err.Error()))
		return
	}

	messagingDBService, err = messagingDB.NewMessagingDBService(db.DbConfigFromYamlObj(conf.DBConfigs.MessagingDB, conf.AllowedInstanceIDs))
	if err != nil {
		slog.Error("Error connecting to Messaging DB", slog.String("error", err.Error()))
		return
	}
}
