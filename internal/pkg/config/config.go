package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

// MinJWTSecretLength is the shortest signing secret the API accepts.
const MinJWTSecretLength = 32

type Config struct {
	Port      string        `env:"PORT,      default=3000"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=168h"`

	CORSOrigins []string `env:"CORS_ORIGINS"`

	Mongo MongoConfig
	Redis RedisConfig
	Order OrderConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI, required"`
	Database     string `env:"MONGO_DB,  default=grocery-store"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=true"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type OrderConfig struct {
	DeliveryFee  decimal.Decimal `env:"DELIVERY_FEE,        default=50"`
	StrictStatus bool            `env:"ORDER_STRICT_STATUS, default=false"`
}

// AdminConfig holds the bootstrap admin account. Seeding is skipped unless
// both Email and Password are set.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME, default=Admin User"`
}

// SeedEnabled reports whether an admin account should be reconciled at startup.
func (a AdminConfig) SeedEnabled() bool {
	return a.Email != "" && a.Password != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Order.DeliveryFee.IsNegative() {
		return errors.New("DELIVERY_FEE must not be negative")
	}
	return nil
}
