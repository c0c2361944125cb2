package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	StorageModePostgres = "postgres"
	StorageModeLocal    = "local"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	StorageMode   string   `mapstructure:"STORAGE_MODE"`
	DatabaseURL   string   `mapstructure:"DATABASE_URL"`
	DBMaxConns    int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns    int32    `mapstructure:"DB_MIN_CONNS"`
	LocalDataDir  string   `mapstructure:"LOCAL_DATA_DIR"`
	AuthIssuer    string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL   string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience  string   `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey string   `mapstructure:"JWT_SIGNING_KEY"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	SlotBias      float64  `mapstructure:"SLOT_AVAILABILITY_BIAS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_MODE", StorageModeLocal)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("LOCAL_DATA_DIR", "./data")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SLOT_AVAILABILITY_BIAS", 0.6)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("STORAGE_MODE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("LOCAL_DATA_DIR")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SLOT_AVAILABILITY_BIAS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Postgres mode needs
// a DATABASE_URL; production refuses to start without real JWT verification
// material, and the local backend is demo-grade so production requires
// postgres.
func (c *Config) Validate() error {
	switch c.StorageMode {
	case StorageModePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_MODE is %q", StorageModePostgres)
		}
	case StorageModeLocal:
		if c.IsProduction() {
			return fmt.Errorf("STORAGE_MODE=local is demo-grade (last-write-wins, no slot reservation) and is refused in production")
		}
	default:
		return fmt.Errorf("STORAGE_MODE must be %q or %q, got %q", StorageModePostgres, StorageModeLocal, c.StorageMode)
	}

	if c.SlotBias < 0 || c.SlotBias > 1 {
		return fmt.Errorf("SLOT_AVAILABILITY_BIAS must be in [0,1], got %v", c.SlotBias)
	}

	if c.IsProduction() && c.AuthIssuer == "" && c.JWTSigningKey == "" {
		return fmt.Errorf("production requires AUTH_ISSUER (JWKS verification) or JWT_SIGNING_KEY")
	}

	return nil
}
