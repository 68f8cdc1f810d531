package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is handed to envconfig; every variable also carries the full
// BARRELHOUSE_ name in its tag.
const EnvPrefix = "barrelhouse"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BARRELHOUSE_DB_DSN"
	EnvDBHost = "BARRELHOUSE_DB_HOST"
	EnvDBUser = "BARRELHOUSE_DB_USER"
	EnvDBName = "BARRELHOUSE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Register     RegisterConfig
	Inventory    InventoryConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BARRELHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"BARRELHOUSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BARRELHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BARRELHOUSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BARRELHOUSE_DB_DSN"`
	Driver string `envconfig:"BARRELHOUSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BARRELHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"BARRELHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BARRELHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"BARRELHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BARRELHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BARRELHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BARRELHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BARRELHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BARRELHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BARRELHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BARRELHOUSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BARRELHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"BARRELHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BARRELHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BARRELHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BARRELHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BARRELHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BARRELHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BARRELHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BARRELHOUSE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BARRELHOUSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BARRELHOUSE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BARRELHOUSE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BARRELHOUSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BARRELHOUSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BARRELHOUSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BARRELHOUSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BARRELHOUSE_ARGON_KEY_LEN" default:"32"`
}

// RegisterConfig tunes the register (active cart) workflow.
type RegisterConfig struct {
	// CartTTL bounds how long an abandoned register cart survives in Redis.
	CartTTL time.Duration `envconfig:"BARRELHOUSE_REGISTER_CART_TTL" default:"12h"`
}

type InventoryConfig struct {
	LowStockThreshold int `envconfig:"BARRELHOUSE_LOW_STOCK_THRESHOLD" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BARRELHOUSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BARRELHOUSE_AUTO_MIGRATE" default:"false"`
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
