package bootstrap

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/coordinator"
	"github.com/turiddu25/cobble-economy/internal/pkg/database"
	"github.com/turiddu25/cobble-economy/internal/pkg/env"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type BridgeConfig struct {
	HttpPort  string `env:"HTTP_PORT" envDefault:":8080"`
	GrpcPort  string `env:"GRPC_PORT" envDefault:":9090"`
	RulesPath string `env:"RULES_PATH" envDefault:"configs/rules.yaml"`
	JwtSecret string `env:"JWT_SECRET,notEmpty"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	EconomyBackend string                    `env:"ECONOMY_BACKEND" envDefault:"postgres"`
	DbSettings     database.PostgresSettings `envPrefix:"DB_"`
	StartBalance   decimal.Decimal           `env:"START_BALANCE" envDefault:"0"`

	Workers              int           `env:"WORKERS" envDefault:"4"`
	QueueSize            int           `env:"QUEUE_SIZE" envDefault:"256"`
	MaxAttempts          int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	CallTimeout          time.Duration `env:"CALL_TIMEOUT" envDefault:"5s"`
	RetryInitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" envDefault:"200ms"`
	RetryMaxInterval     time.Duration `env:"RETRY_MAX_INTERVAL" envDefault:"5s"`
	ResultRetention      time.Duration `env:"RESULT_RETENTION" envDefault:"10m"`
}

// LoadConfig reads BridgeConfig from the environment and validates it.
func LoadConfig() (BridgeConfig, error) {
	var cfg BridgeConfig
	if err := env.Parse(&cfg); err != nil {
		return BridgeConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return BridgeConfig{}, err
	}

	return cfg, nil
}

func (c BridgeConfig) Validate() error {
	if c.EconomyBackend != BackendPostgres && c.EconomyBackend != BackendMemory {
		return fmt.Errorf("ECONOMY_BACKEND: must be %q or %q, got %q", BackendPostgres, BackendMemory, c.EconomyBackend)
	}
	if c.StartBalance.IsNegative() {
		return fmt.Errorf("START_BALANCE: must not be negative, got %s", c.StartBalance)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("WORKERS: must be positive, got %d", c.Workers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("QUEUE_SIZE: must be positive, got %d", c.QueueSize)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("MAX_ATTEMPTS: must be positive, got %d", c.MaxAttempts)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("CALL_TIMEOUT: must be positive, got %s", c.CallTimeout)
	}
	return nil
}

func (c BridgeConfig) CoordinatorConfig() coordinator.Config {
	return coordinator.Config{
		Workers:         c.Workers,
		QueueSize:       c.QueueSize,
		MaxAttempts:     c.MaxAttempts,
		CallTimeout:     c.CallTimeout,
		InitialInterval: c.RetryInitialInterval,
		MaxInterval:     c.RetryMaxInterval,
		Retention:       c.ResultRetention,
	}
}
