// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is parsed once at start-up and passed by value to the components
// that need it. Nothing reads the environment after Load returns.
type Config struct {
	Port        string `env:"PORT" envDefault:"5000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	DatabaseURL string           `env:"DATABASE_URL"`
	DB          DBConfig         `envPrefix:"DB_"`
	Auth        AuthConfig       `envPrefix:"JWT_"`
	Upload      UploadConfig
	Cloud       CloudinaryConfig `envPrefix:"CLOUDINARY_"`
	AMQPURL     string           `env:"AMQP_URL"`
	Activity    ActivityConfig
}

// DBConfig holds the discrete DB_* variables; DATABASE_URL wins when set.
type DBConfig struct {
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type AuthConfig struct {
	Secret    string        `env:"SECRET,notEmpty"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"168h"`
}

type UploadConfig struct {
	MaxFileBytes int64 `env:"UPLOAD_MAX_FILE_BYTES" envDefault:"104857600"`
	MaxFiles     int   `env:"UPLOAD_MAX_FILES" envDefault:"20"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUD_NAME"`
	APIKey    string `env:"API_KEY"`
	APISecret string `env:"API_SECRET"`
	Folder    string `env:"FOLDER" envDefault:"campaign_content"`
}

// Configured reports whether all Cloudinary credentials are present.
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type ActivityConfig struct {
	Topic string `env:"ACTIVITY_TOPIC" envDefault:"campaign_activity"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Auth.ExpiresIn <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if cfg.Upload.MaxFiles < 1 {
		return Config{}, fmt.Errorf("UPLOAD_MAX_FILES must be at least 1")
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DB.DSN()
}

func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}
