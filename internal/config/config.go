package config

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/version"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration of the dashboard backend.
type Config struct {
	// Version is the binary version the file was written for. Empty disables the check.
	Version  string         `yaml:"version" json:"version" jsonschema:"title=Version,description=Dashboard version this file targets"`
	Symbol   string         `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Futures symbol to track,default=BTCUSDT" validate:"required"`
	Exchange ExchangeConfig `yaml:"exchange" json:"exchange"`
	Stream   StreamConfig   `yaml:"stream" json:"stream"`
	Loops    LoopsConfig    `yaml:"loops" json:"loops"`
	Metrics  MetricsConfig  `yaml:"metrics" json:"metrics"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Log      logger.Config  `yaml:"log" json:"log"`
}

// ExchangeConfig holds the Binance futures REST settings.
type ExchangeConfig struct {
	APIKey    string `yaml:"api_key" json:"api_key" jsonschema:"title=API Key,description=Binance futures API key"`
	APISecret string `yaml:"api_secret" json:"api_secret" jsonschema:"title=API Secret,description=Binance futures API secret"`
	Testnet   bool   `yaml:"testnet" json:"testnet" jsonschema:"title=Testnet,description=Use the futures testnet endpoints"`
	// RecvWindow is the signed request validity window in milliseconds.
	RecvWindow        int64   `yaml:"recv_window" json:"recv_window" jsonschema:"minimum=1,maximum=60000,default=5000" validate:"min=1,max=60000"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" jsonschema:"default=10" validate:"gt=0"`
	Burst             int     `yaml:"burst" json:"burst" jsonschema:"default=5" validate:"min=1"`
}

// StreamConfig holds the upstream quote feed settings.
type StreamConfig struct {
	ReconnectDelay time.Duration `yaml:"reconnect_delay" json:"reconnect_delay" jsonschema:"description=Fixed delay between reconnect attempts" validate:"gt=0"`
}

// LoopsConfig holds the cadence of every periodic task.
type LoopsConfig struct {
	AccountInterval   time.Duration `yaml:"account_interval" json:"account_interval" validate:"gt=0"`
	IncomeInterval    time.Duration `yaml:"income_interval" json:"income_interval" validate:"gt=0"`
	MetricsInterval   time.Duration `yaml:"metrics_interval" json:"metrics_interval" validate:"gt=0"`
	TickerInterval    time.Duration `yaml:"ticker_interval" json:"ticker_interval" validate:"gt=0"`
	TradesInterval    time.Duration `yaml:"trades_interval" json:"trades_interval" validate:"gt=0"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval" json:"heartbeat_interval" validate:"gt=0"`
	// TradeFetchLimit is the number of recent trades requested per trades tick.
	TradeFetchLimit int `yaml:"trade_fetch_limit" json:"trade_fetch_limit" jsonschema:"minimum=1,maximum=1000,default=500" validate:"min=1,max=1000"`
	// SnapshotSize is the number of trades carried by the one-time trades snapshot.
	SnapshotSize int `yaml:"snapshot_size" json:"snapshot_size" jsonschema:"minimum=1,default=100" validate:"min=1"`
	// IncomeLimit is the page size of the 24h income history query.
	IncomeLimit int `yaml:"income_limit" json:"income_limit" jsonschema:"minimum=1,maximum=1000,default=1000" validate:"min=1,max=1000"`
}

// MetricsConfig holds the win/loss/flat classification threshold.
type MetricsConfig struct {
	NoiseFloor float64 `yaml:"noise_floor" json:"noise_floor" jsonschema:"default=0.05" validate:"gte=0"`
	NoiseRatio float64 `yaml:"noise_ratio" json:"noise_ratio" jsonschema:"default=0.0005" validate:"gte=0"`
}

// ServerConfig holds the downstream HTTP/WebSocket settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr" jsonschema:"default=:8000" validate:"required"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" validate:"gt=0"`
	PingInterval time.Duration `yaml:"ping_interval" json:"ping_interval" validate:"gt=0"`
}

// Default returns the configuration used when no file or flag overrides a value.
func Default() Config {
	return Config{
		Version: "",
		Symbol:  "BTCUSDT",
		Exchange: ExchangeConfig{
			APIKey:            "",
			APISecret:         "",
			Testnet:           false,
			RecvWindow:        5000,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Stream: StreamConfig{
			ReconnectDelay: 3 * time.Second,
		},
		Loops: LoopsConfig{
			AccountInterval:   5 * time.Second,
			IncomeInterval:    60 * time.Second,
			MetricsInterval:   5 * time.Second,
			TickerInterval:    10 * time.Second,
			TradesInterval:    5 * time.Second,
			HeartbeatInterval: 5 * time.Second,
			TradeFetchLimit:   500,
			SnapshotSize:      100,
			IncomeLimit:       1000,
		},
		Metrics: MetricsConfig{
			NoiseFloor: 0.05,
			NoiseRatio: 0.0005,
		},
		Server: ServerConfig{
			Addr:         ":8000",
			WriteTimeout: 5 * time.Second,
			PingInterval: 30 * time.Second,
		},
		Log: logger.Config{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads an optional YAML file on top of Default. An empty path returns the defaults.
// The result is not validated; callers apply overrides first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), cfg.Version); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeVersionMismatch, "config file is not compatible with this binary", err)
	}

	return cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid dashboard config", err)
	}

	return nil
}

// HasCredentials reports whether signed REST requests can be made.
func (c *Config) HasCredentials() bool {
	return strings.TrimSpace(c.Exchange.APIKey) != "" && strings.TrimSpace(c.Exchange.APISecret) != ""
}

// RequireCredentials returns a ConfigurationMissing error when HasCredentials is false.
func (c *Config) RequireCredentials() error {
	if !c.HasCredentials() {
		return errors.New(errors.ErrCodeConfigurationMissing, "BINANCE_API_KEY and BINANCE_API_SECRET are not set")
	}

	return nil
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "argo-dashboard-config"
	schema.Description = "Configuration schema for the futures dashboard backend"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeEncodeFailed, "failed to encode config schema", err)
	}

	return string(schemaBytes), nil
}
