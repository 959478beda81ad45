package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (ELIT_ prefix), flags, or YAML config files.
type Config struct {
	BackendURL   string `default:"http://localhost:8080" usage:"Order backend base URL" flag:"backend-url"`
	ProcessorURL string `usage:"Payment processor API base URL (ELIT_PROCESSOR_URL)" flag:"processor-url"`
	ProcessorKey string `usage:"Payment processor API key (ELIT_PROCESSOR_KEY)" flag:"processor-key"`
	StoragePath  string `default:"storefront.db" usage:"SQLite local storage path" flag:"storage-path"`
	RedisAddr    string `default:"" usage:"Redis address for cart storage shared across surfaces (empty = local SQLite)" flag:"redis-addr"`
	Checkout     CheckoutConfig
	Probe        ProbeConfig
}

// CheckoutConfig controls the checkout state machine timing.
type CheckoutConfig struct {
	// StepTimeout bounds each network call of a checkout attempt, converting
	// a stalled collaborator into the corresponding staged failure.
	StepTimeout time.Duration `default:"30s" usage:"Per-step checkout timeout" flag:"step-timeout"`
}

// ProbeConfig controls the backend availability probe.
type ProbeConfig struct {
	Interval time.Duration `default:"30s" usage:"Backend probe interval"`
	Timeout  time.Duration `default:"5s"  usage:"Backend probe timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ELIT",
		Files:     []string{"config.yaml", "/etc/elit/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.ProcessorURL == "" {
		return nil, errors.New("processor URL is required: set ELIT_PROCESSOR_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps commonly used unprefixed environment variables
// to the ELIT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if v := os.Getenv("BACKEND_URL"); v != "" && c.BackendURL == "http://localhost:8080" {
		c.BackendURL = v
	}
	if c.RedisAddr == "" {
		if v := os.Getenv("REDIS_ADDR"); v != "" {
			c.RedisAddr = v
		}
	}
}
