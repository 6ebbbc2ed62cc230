package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App           AppConfig
	Storage       StorageConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Seed          SeedConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Storage.Driver = cfg.Storage.normalized()
	if cfg.Storage.Driver == StorageDriverPostgres {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var err error
	if !c.Storage.validDriver() {
		err = multierr.Append(err, fmt.Errorf("%s must be one of memory, postgres, sqlite (got %q)", EnvStorageDriver, c.Storage.Driver))
	}
	if c.Storage.Driver == StorageDriverSQLite && strings.TrimSpace(c.DB.SQLitePath) == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required for the sqlite driver", EnvDBSQLitePath))
	}
	if len(c.Session.Secret) < minSessionSecretLen {
		err = multierr.Append(err, fmt.Errorf("%s must be at least %d characters", EnvSessionSecret, minSessionSecretLen))
	}
	if c.Session.TTL <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvSessionTTL))
	}
	if c.Password.ScryptN < 2 || c.Password.ScryptN&(c.Password.ScryptN-1) != 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be a power of two greater than 1", EnvScryptN))
	}
	if c.Password.SaltLen < 16 {
		err = multierr.Append(err, fmt.Errorf("%s must be at least 16", EnvPasswordSaltLen))
	}
	if c.Seed.AdminEmail != "" && (c.Seed.AdminUsername == "" || c.Seed.AdminPassword == "") {
		err = multierr.Append(err, fmt.Errorf("%s and %s are required when %s is set", EnvSeedAdminUsername, EnvSeedAdminPassword, EnvSeedAdminEmail))
	}
	return err
}

type AppConfig struct {
	Env             string        `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port            string        `envconfig:"STOREFRONT_APP_PORT" default:"5000"`
	LogLevel        string        `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"STOREFRONT_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"STOREFRONT_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"STOREFRONT_SHUTDOWN_TIMEOUT" default:"10s"`
	IdempotencyTTL  time.Duration `envconfig:"STOREFRONT_IDEMPOTENCY_TTL" default:"24h"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Driver string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"memory"`
}

func (s StorageConfig) normalized() string {
	return strings.ToLower(strings.TrimSpace(s.Driver))
}

func (s StorageConfig) validDriver() bool {
	switch s.normalized() {
	case StorageDriverMemory, StorageDriverPostgres, StorageDriverSQLite:
		return true
	}
	return false
}

// UsesSQL reports whether records live in a gorm-managed database.
func (s StorageConfig) UsesSQL() bool {
	switch s.normalized() {
	case StorageDriverPostgres, StorageDriverSQLite:
		return true
	}
	return false
}

type DBConfig struct {
	DSN        string `envconfig:"STOREFRONT_DB_DSN"`
	SQLitePath string `envconfig:"STOREFRONT_DB_SQLITE_PATH" default:"storefront.db"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"STOREFRONT_DB_SLOW_QUERY" default:"200ms"`
}

// RedisConfig is optional; with neither URL nor address set the service
// keeps sessions and counters in process.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	Secret       string        `envconfig:"STOREFRONT_SESSION_SECRET" required:"true"`
	Issuer       string        `envconfig:"STOREFRONT_SESSION_ISSUER" default:"storefront"`
	CookieName   string        `envconfig:"STOREFRONT_SESSION_COOKIE_NAME" default:"sid"`
	TTL          time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"168h"`
	SecureCookie bool          `envconfig:"STOREFRONT_SESSION_SECURE_COOKIE" default:"false"`
}

type PasswordConfig struct {
	ScryptN   int `envconfig:"STOREFRONT_SCRYPT_N" default:"16384"`
	ScryptR   int `envconfig:"STOREFRONT_SCRYPT_R" default:"8"`
	ScryptP   int `envconfig:"STOREFRONT_SCRYPT_P" default:"1"`
	SaltLen   int `envconfig:"STOREFRONT_PASSWORD_SALT_LEN" default:"16"`
	KeyLen    int `envconfig:"STOREFRONT_PASSWORD_KEY_LEN" default:"64"`
	MinLength int `envconfig:"STOREFRONT_PASSWORD_MIN_LENGTH" default:"8"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig drives the per-client token bucket applied to the whole API.
type RateLimitConfig struct {
	RequestsPerMinute int           `envconfig:"STOREFRONT_RATE_LIMIT_RPM" default:"600"`
	Burst             int           `envconfig:"STOREFRONT_RATE_LIMIT_BURST" default:"100"`
	IdleTTL           time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_IDLE_TTL" default:"10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type SeedConfig struct {
	Catalog       bool   `envconfig:"STOREFRONT_SEED_CATALOG" default:"true"`
	AdminEmail    string `envconfig:"STOREFRONT_SEED_ADMIN_EMAIL"`
	AdminUsername string `envconfig:"STOREFRONT_SEED_ADMIN_USERNAME"`
	AdminPassword string `envconfig:"STOREFRONT_SEED_ADMIN_PASSWORD"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
