package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable the service reads. The prefix is
// baked into each envconfig tag, so Process runs with an empty prefix.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Auth          AuthConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Speech        SpeechConfig
	Narrative     NarrativeConfig
	Dictation     DictationConfig
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
	Env          string `envconfig:"SAFARNAMA_APP_ENV" required:"true"`
	Port         string `envconfig:"SAFARNAMA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAFARNAMA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAFARNAMA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SAFARNAMA_DB_DSN"`
	Driver string `envconfig:"SAFARNAMA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SAFARNAMA_DB_HOST"`
	Port     int    `envconfig:"SAFARNAMA_DB_PORT" default:"5432"`
	User     string `envconfig:"SAFARNAMA_DB_USER"`
	Password string `envconfig:"SAFARNAMA_DB_PASSWORD"`
	Name     string `envconfig:"SAFARNAMA_DB_NAME"`
	SSLMode  string `envconfig:"SAFARNAMA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAFARNAMA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAFARNAMA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAFARNAMA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAFARNAMA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAFARNAMA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SAFARNAMA_REDIS_ADDR"`
	Password     string        `envconfig:"SAFARNAMA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAFARNAMA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAFARNAMA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAFARNAMA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAFARNAMA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAFARNAMA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAFARNAMA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SAFARNAMA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SAFARNAMA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SAFARNAMA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SAFARNAMA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SAFARNAMA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SAFARNAMA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SAFARNAMA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SAFARNAMA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SAFARNAMA_ARGON_KEY_LEN" default:"32"`
}

// AuthConfig carries the signup/login policy knobs: which mail domain accounts
// must live on and how short a password may be.
type AuthConfig struct {
	AllowedEmailDomain string `envconfig:"SAFARNAMA_AUTH_EMAIL_DOMAIN" default:"gmail.com"`
	MinPasswordLength  int    `envconfig:"SAFARNAMA_AUTH_MIN_PASSWORD_LENGTH" default:"6"`
	AvatarBaseURL      string `envconfig:"SAFARNAMA_AUTH_AVATAR_BASE_URL" default:"https://api.dicebear.com/7.x/avataaars/svg"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SAFARNAMA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SAFARNAMA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SAFARNAMA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SAFARNAMA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SAFARNAMA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SAFARNAMA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SAFARNAMA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SAFARNAMA_AUTO_MIGRATE" default:"false"`
}

// SpeechConfig points at the transcription API (Whisper-compatible surface).
type SpeechConfig struct {
	BaseURL string `envconfig:"SAFARNAMA_SPEECH_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey  string `envconfig:"SAFARNAMA_SPEECH_API_KEY"`
	Model   string `envconfig:"SAFARNAMA_SPEECH_MODEL" default:"whisper-1"`
}

// NarrativeConfig points at the narrative generation API (chat-completions surface).
type NarrativeConfig struct {
	BaseURL string `envconfig:"SAFARNAMA_NARRATIVE_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey  string `envconfig:"SAFARNAMA_NARRATIVE_API_KEY"`
	Model   string `envconfig:"SAFARNAMA_NARRATIVE_MODEL" default:"gpt-4o-mini"`
}

type DictationConfig struct {
	// MaxAudioMB caps the uploaded capture size; the payload itself stays opaque.
	MaxAudioMB int `envconfig:"SAFARNAMA_DICTATION_MAX_AUDIO_MB" default:"25"`
	// LockTTL bounds how long a crashed cycle can hold a trip's dictation lock.
	LockTTL time.Duration `envconfig:"SAFARNAMA_DICTATION_LOCK_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"SAFARNAMA_DB_HOST": db.Host,
		"SAFARNAMA_DB_USER": db.User,
		"SAFARNAMA_DB_NAME": db.Name,
	}
	for _, env := range []string{"SAFARNAMA_DB_HOST", "SAFARNAMA_DB_USER", "SAFARNAMA_DB_NAME"} {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either SAFARNAMA_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
