package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "kalaasetu"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "KALAASETU_APP_ENV"
	EnvPort      = "KALAASETU_APP_PORT"
	EnvDBDSN     = "KALAASETU_DB_DSN"
	EnvDBHost    = "KALAASETU_DB_HOST"
	EnvDBUser    = "KALAASETU_DB_USER"
	EnvDBName    = "KALAASETU_DB_NAME"
	EnvRedisAddr = "KALAASETU_REDIS_ADDR"
	EnvJWTSecret = "KALAASETU_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	SMTP    SMTPConfig
	Gemini  GeminiConfig
	Uploads UploadsConfig
	Enhance EnhanceConfig
	AI      AIRateLimitConfig
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
	Env             string        `envconfig:"KALAASETU_APP_ENV" required:"true"`
	Port            string        `envconfig:"KALAASETU_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"KALAASETU_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"KALAASETU_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"KALAASETU_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"KALAASETU_CORS_ORIGINS" default:"http://localhost:5173"`
	AutoMigrate     bool          `envconfig:"KALAASETU_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"KALAASETU_DB_DSN"`

	LegacyHost     string `envconfig:"KALAASETU_DB_HOST"`
	LegacyPort     int    `envconfig:"KALAASETU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KALAASETU_DB_USER"`
	LegacyPassword string `envconfig:"KALAASETU_DB_PASSWORD"`
	LegacyName     string `envconfig:"KALAASETU_DB_NAME"`
	LegacySSLMode  string `envconfig:"KALAASETU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KALAASETU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KALAASETU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KALAASETU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KALAASETU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	Address      string        `envconfig:"KALAASETU_REDIS_ADDR" required:"true"`
	Password     string        `envconfig:"KALAASETU_REDIS_PASSWORD"`
	DB           int           `envconfig:"KALAASETU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KALAASETU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KALAASETU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KALAASETU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KALAASETU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KALAASETU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KALAASETU_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KALAASETU_JWT_ISSUER" default:"kalaasetu"`
	ExpirationMinutes int    `envconfig:"KALAASETU_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type SMTPConfig struct {
	Host     string `envconfig:"KALAASETU_SMTP_HOST"`
	Port     int    `envconfig:"KALAASETU_SMTP_PORT" default:"587"`
	Username string `envconfig:"KALAASETU_SMTP_USERNAME"`
	Password string `envconfig:"KALAASETU_SMTP_PASSWORD"`
	From     string `envconfig:"KALAASETU_SMTP_FROM"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"KALAASETU_GEMINI_API_KEY"`
	Model   string        `envconfig:"KALAASETU_GEMINI_MODEL" default:"gemini-1.5-flash"`
	BaseURL string        `envconfig:"KALAASETU_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `envconfig:"KALAASETU_GEMINI_TIMEOUT" default:"30s"`
}

type UploadsConfig struct {
	Dir      string `envconfig:"KALAASETU_UPLOADS_DIR" default:"uploads"`
	MaxBytes int64  `envconfig:"KALAASETU_UPLOADS_MAX_BYTES" default:"10485760"`
}

type EnhanceConfig struct {
	RembgBin      string        `envconfig:"KALAASETU_ENHANCE_REMBG_BIN" default:"rembg"`
	RealesrganBin string        `envconfig:"KALAASETU_ENHANCE_REALESRGAN_BIN" default:"realesrgan-ncnn-vulkan"`
	WorkDir       string        `envconfig:"KALAASETU_ENHANCE_WORK_DIR" default:""`
	Timeout       time.Duration `envconfig:"KALAASETU_ENHANCE_TIMEOUT" default:"120s"`
}

type AIRateLimitConfig struct {
	Window time.Duration `envconfig:"KALAASETU_AI_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"KALAASETU_AI_RATE_LIMIT" default:"20"`
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
