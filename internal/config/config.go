package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// MongoConfig holds document store settings shared by the server and the admin CLI.
type MongoConfig struct {
	MongoURI      string `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"console"`
}

// Config holds application configuration loaded from environment variables.
type Config struct {
	MongoConfig

	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Version     string `envconfig:"VERSION" default:"dev"`
	BaseURL     string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	AuthDomain       string `envconfig:"AUTH_DOMAIN" required:"true"`
	AuthClientID     string `envconfig:"AUTH_CLIENT_ID" required:"true"`
	AuthClientSecret string `envconfig:"AUTH_CLIENT_SECRET" required:"true"`

	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`
	CSRFKey       string        `envconfig:"CSRF_KEY" default:""` // hex, 32 bytes
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadMongo reads only the document store settings.
func LoadMongo() (*MongoConfig, error) {
	var cfg MongoConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
