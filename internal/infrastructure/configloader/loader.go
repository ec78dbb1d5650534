package configloader

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	Registry     RegistryConfig     `yaml:"registry"`
	Removal      RemovalConfig      `yaml:"removal"`
	Watcher      WatcherConfig      `yaml:"watcher"`
	RpcClient    RpcClientConfig    `yaml:"rpcClient"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Balances     BalancesConfig     `yaml:"balances"`
	Swagger      SwaggerConfig      `yaml:"swagger"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ServerConfig holds the server-specific configuration. Timeouts are in seconds.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	ReadTimeout  int      `yaml:"readTimeout"`
	WriteTimeout int      `yaml:"writeTimeout"`
	IdleTimeout  int      `yaml:"idleTimeout"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// RegistryConfig describes which networks the registry starts with.
type RegistryConfig struct {
	BootstrapChainID string   `yaml:"bootstrapChainId"`
	FallbackChainID  string   `yaml:"fallbackChainId"`
	NetworksFile     string   `yaml:"networksFile"`
	Networks         []string `yaml:"networks"` // identifiers or chain IDs, empty means all
}

// RemovalConfig holds configuration for the removal orchestrator.
type RemovalConfig struct {
	StepTimeoutMs int64 `yaml:"stepTimeoutMs"`
}

// WatcherConfig holds configuration for the block watcher.
type WatcherConfig struct {
	PollIntervalMs        int64   `yaml:"pollIntervalMs"`
	MaxConcurrentNetworks int     `yaml:"maxConcurrentNetworks"`
	RateLimitPerSecond    float64 `yaml:"rateLimitPerSecond"`
	Burst                 int     `yaml:"burst"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	ConnectTimeoutMs         int64 `yaml:"connectTimeoutMs"`
	CallTimeoutMs            int64 `yaml:"callTimeoutMs"`
	DialAttempts             uint  `yaml:"dialAttempts"`
	RetryDelayMs             int64 `yaml:"retryDelayMs"`
	MaxAddressesPerBatchCall int   `yaml:"maxAddressesPerBatchCall"`
}

// ConnectivityConfig holds configuration for the connectivity monitor. An empty ProbeURL disables it.
type ConnectivityConfig struct {
	ProbeURL   string `yaml:"probeURL"`
	IntervalMs int64  `yaml:"intervalMs"`
	TimeoutMs  int64  `yaml:"timeoutMs"`
}

// BalancesConfig holds configuration for balance tracking. An empty WalletsFile disables it.
type BalancesConfig struct {
	WalletsFile       string `yaml:"walletsFile"`
	RefreshIntervalMs int64  `yaml:"refreshIntervalMs"`
	TTLMinutes        int    `yaml:"ttlMinutes"`
	MaxConcurrent     int    `yaml:"maxConcurrent"`
}

// Load reads the YAML configuration file from the given path, unmarshals it and applies defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse unmarshals YAML data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setString(&c.Server.Port, "8080", "server.port")
	setInt(&c.Server.ReadTimeout, 15, "server.readTimeout")
	setInt(&c.Server.WriteTimeout, 30, "server.writeTimeout")
	setInt(&c.Server.IdleTimeout, 60, "server.idleTimeout")
	setString(&c.Logging.Level, "info", "logging.level")

	setString(&c.Registry.BootstrapChainID, "1", "registry.bootstrapChainId")
	setString(&c.Registry.FallbackChainID, "1", "registry.fallbackChainId")

	setInt64(&c.Removal.StepTimeoutMs, 10000, "removal.stepTimeoutMs")

	setInt64(&c.Watcher.PollIntervalMs, 12000, "watcher.pollIntervalMs")
	setInt(&c.Watcher.MaxConcurrentNetworks, 4, "watcher.maxConcurrentNetworks")
	if c.Watcher.RateLimitPerSecond <= 0 {
		c.Watcher.RateLimitPerSecond = 2
		logrus.Infof("watcher.rateLimitPerSecond not set, defaulting to %v", c.Watcher.RateLimitPerSecond)
	}
	setInt(&c.Watcher.Burst, 1, "watcher.burst")

	setInt64(&c.RpcClient.ConnectTimeoutMs, 10000, "rpcClient.connectTimeoutMs")
	setInt64(&c.RpcClient.CallTimeoutMs, 10000, "rpcClient.callTimeoutMs")
	if c.RpcClient.DialAttempts == 0 {
		c.RpcClient.DialAttempts = 3
		logrus.Infof("rpcClient.dialAttempts not set, defaulting to %d", c.RpcClient.DialAttempts)
	}
	setInt64(&c.RpcClient.RetryDelayMs, 500, "rpcClient.retryDelayMs")
	setInt(&c.RpcClient.MaxAddressesPerBatchCall, 50, "rpcClient.maxAddressesPerBatchCall")

	setInt64(&c.Connectivity.IntervalMs, 15000, "connectivity.intervalMs")
	setInt64(&c.Connectivity.TimeoutMs, 5000, "connectivity.timeoutMs")

	setInt64(&c.Balances.RefreshIntervalMs, 60000, "balances.refreshIntervalMs")
	setInt(&c.Balances.MaxConcurrent, 4, "balances.maxConcurrent")
	// TTLMinutes 0 keeps balances until purged

	if c.Swagger.Enabled {
		setString(&c.Swagger.Path, "/swagger", "swagger.path")
	}
}

func (c *Config) validate() error {
	if c.Balances.TTLMinutes < 0 {
		return fmt.Errorf("balances.ttlMinutes must not be negative, got %d", c.Balances.TTLMinutes)
	}
	if c.Registry.NetworksFile != "" {
		if _, err := os.Stat(c.Registry.NetworksFile); err != nil {
			return fmt.Errorf("registry.networksFile: %w", err)
		}
	}
	return nil
}

func setString(v *string, def, name string) {
	if *v == "" {
		*v = def
		logrus.Infof("%s not set, defaulting to %s", name, def)
	}
}

func setInt(v *int, def int, name string) {
	if *v <= 0 {
		*v = def
		logrus.Infof("%s not set, defaulting to %d", name, def)
	}
}

func setInt64(v *int64, def int64, name string) {
	if *v <= 0 {
		*v = def
		logrus.Infof("%s not set, defaulting to %d", name, def)
	}
}

// Millis converts a millisecond setting into a duration.
func Millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
