package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

const minSessionSecretLen = 16

const (
	EnvAppEnv            = "STOREFRONT_APP_ENV"
	EnvPort              = "STOREFRONT_APP_PORT"
	EnvStorageDriver     = "STOREFRONT_STORAGE_DRIVER"
	EnvDBDSN             = "STOREFRONT_DB_DSN"
	EnvDBSQLitePath      = "STOREFRONT_DB_SQLITE_PATH"
	EnvDBHost            = "STOREFRONT_DB_HOST"
	EnvDBUser            = "STOREFRONT_DB_USER"
	EnvDBName            = "STOREFRONT_DB_NAME"
	EnvRedisURL          = "STOREFRONT_REDIS_URL"
	EnvSessionSecret     = "STOREFRONT_SESSION_SECRET"
	EnvSessionTTL        = "STOREFRONT_SESSION_TTL"
	EnvScryptN           = "STOREFRONT_SCRYPT_N"
	EnvPasswordSaltLen   = "STOREFRONT_PASSWORD_SALT_LEN"
	EnvSeedAdminEmail    = "STOREFRONT_SEED_ADMIN_EMAIL"
	EnvSeedAdminUsername = "STOREFRONT_SEED_ADMIN_USERNAME"
	EnvSeedAdminPassword = "STOREFRONT_SEED_ADMIN_PASSWORD"
	EnvCORSOrigins       = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)

// legacyDBEnvVars are the parts needed to assemble a DSN when none is given.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
