package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug   bool    `yaml:"debug" env:"STREAMHUB_DEBUG"`
	Limiter Limiter `yaml:"limiter"`
	Auth    Auth    `yaml:"auth"`
	Server  Server  `yaml:"server"`
	DB      DB      `yaml:"db"`
	SMTP    SMTP    `yaml:"smtp"`
	NATS    NATS    `yaml:"nats"`
	Tracing Tracing `yaml:"tracing"`
	Tasks   Tasks   `yaml:"tasks"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"STREAMHUB_LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Auth struct {
	Secret     string        `yaml:"secret" env:"STREAMHUB_AUTH_SECRET" env-required:"true"`
	Issuer     string        `yaml:"issuer" env-default:"streamhub"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"168h"`
	OwnerEmail string        `yaml:"owner_email" env:"STREAMHUB_OWNER_EMAIL" env-required:"true"`
	BcryptCost int           `yaml:"bcrypt_cost" env-default:"10"`
}

type Server struct {
	Port string `yaml:"port" env:"STREAMHUB_PORT" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"2s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"2s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

// DB with an empty Dsn selects the in-memory store.
type DB struct {
	Dsn             string        `yaml:"dsn" env:"STREAMHUB_DB_DSN"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
}

// SMTP with an empty Host disables outgoing mail.
type SMTP struct {
	Host         string        `yaml:"host" env:"STREAMHUB_SMTP_HOST"`
	Port         int           `yaml:"port" env-default:"25"`
	Username     string        `yaml:"username" env:"STREAMHUB_SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"STREAMHUB_SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env-default:"StreamHub <no-reply@streamhub.local>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type NATS struct {
	URL string `yaml:"url" env:"STREAMHUB_NATS_URL"`
}

type Tracing struct {
	Enabled bool `yaml:"enabled" env:"STREAMHUB_TRACING_ENABLED"`
}

type Tasks struct {
	MaxWorkers int `yaml:"max_workers" env-default:"4"`
	QueueSize  int `yaml:"queue_size" env-default:"100"`
}

// loadDotenv never overrides variables already present in the environment.
func loadDotenv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			if err := godotenv.Load(name); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", name, err)
			}
		}
	}
}

func Load(configPath string) (*Config, error) {
	loadDotenv()
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}
