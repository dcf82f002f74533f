package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	minSecretLen = 32
)

type Config struct {
	Env      string `env:"ENV"       env-default:"development"`
	Port     int    `env:"PORT"      env-default:"3000"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	DB      DBConfig
	JWT     JWTConfig
	CORS    CORSConfig
	S3      S3Config
	Kafka   KafkaConfig
	Elastic ElasticConfig
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER"             env-default:"mongo"`
	MongoURI    string `env:"MONGODB_URI"`
	MaxPoolSize uint64 `env:"MONGODB_MAX_POOL_SIZE" env-default:"10"`
	DatabaseURL string `env:"DATABASE_URL"`
}

type JWTConfig struct {
	AccessSecret  string `env:"JWT_ACCESS_SECRET"`
	RefreshSecret string `env:"JWT_REFRESH_SECRET"`
	AccessExpiry  string `env:"JWT_ACCESS_EXPIRY"  env-default:"15m"`
	RefreshExpiry string `env:"JWT_REFRESH_EXPIRY" env-default:"7d"`

	// Parsed from the expiry strings by validate.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type CORSConfig struct {
	ClientURL string `env:"FRONTEND_CLIENT_URL"`
	AdminURL  string `env:"FRONTEND_ADMIN_URL"`
}

func (c CORSConfig) Origins() []string {
	return []string{c.ClientURL, c.AdminURL}
}

type S3Config struct {
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	Bucket        string `env:"S3_BUCKET"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

func (s S3Config) Enabled() bool { return s.Endpoint != "" }

type KafkaConfig struct {
	Brokers string `env:"KAFKA_BROKERS"`
}

func (k KafkaConfig) BrokerList() []string { return CSV(k.Brokers) }

type ElasticConfig struct {
	URL      string `env:"ES_URL"`
	User     string `env:"ES_USER"`
	Password string `env:"ES_PASSWORD"`
	Index    string `env:"ES_INDEX" env-default:"services"`
}

func (e ElasticConfig) Enabled() bool { return e.URL != "" }

// Load reads .env (if present) into the process environment and then the
// environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) validate() error {
	switch c.Env {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENV must be one of development, production, test")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}

	switch c.DB.Driver {
	case DriverMongo:
		if c.DB.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for DB_DRIVER=mongo")
		}
		if c.DB.MaxPoolSize == 0 {
			return fmt.Errorf("MONGODB_MAX_POOL_SIZE must be > 0")
		}
	case DriverPostgres, DriverSQLite:
		if c.DB.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if len(c.JWT.AccessSecret) < minSecretLen {
		return fmt.Errorf("JWT_ACCESS_SECRET must be at least %d characters", minSecretLen)
	}
	if len(c.JWT.RefreshSecret) < minSecretLen {
		return fmt.Errorf("JWT_REFRESH_SECRET must be at least %d characters", minSecretLen)
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	var err error
	if c.JWT.AccessTTL, err = ParseExpiry(c.JWT.AccessExpiry); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRY: %w", err)
	}
	if c.JWT.RefreshTTL, err = ParseExpiry(c.JWT.RefreshExpiry); err != nil {
		return fmt.Errorf("JWT_REFRESH_EXPIRY: %w", err)
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be shorter than JWT_REFRESH_EXPIRY")
	}

	if c.CORS.ClientURL == "" || c.CORS.AdminURL == "" {
		return fmt.Errorf("FRONTEND_CLIENT_URL and FRONTEND_ADMIN_URL are required")
	}

	if c.S3.Enabled() && c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENDPOINT is set")
	}

	return nil
}

// ParseExpiry accepts Go durations plus a day suffix ("7d"), the format the
// expiry variables have always used.
func ParseExpiry(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive: %q", v)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", v)
	}
	return d, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
