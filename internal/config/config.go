// Package config loads process-wide configuration for the orbit control
// plane core from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// SchedulerConfig holds the configuration keys consumed by pkg/scheduler.
type SchedulerConfig struct {
	MaxRetries       int    `env:"ORBIT_SCHEDULER_MAX_RETRIES" envDefault:"3"`
	DefaultPriority  int    `env:"ORBIT_SCHEDULER_DEFAULT_PRIORITY" envDefault:"0"`
	EnablePreemption bool   `env:"ORBIT_SCHEDULER_ENABLE_PREEMPTION" envDefault:"false"`
	Policy           string `env:"ORBIT_SCHEDULER_POLICY" envDefault:"spread"`
}

// NodeConfig holds the configuration keys consumed by pkg/node.
type NodeConfig struct {
	HeartbeatTimeoutMs        int  `env:"ORBIT_NODE_HEARTBEAT_TIMEOUT_MS" envDefault:"30000"`
	HeartbeatCheckIntervalMs  int  `env:"ORBIT_NODE_HEARTBEAT_CHECK_INTERVAL_MS" envDefault:"10000"`
	EnableHeartbeatMonitoring bool `env:"ORBIT_NODE_ENABLE_HEARTBEAT_MONITORING" envDefault:"true"`
}

// NamespaceConfig holds the configuration keys consumed by pkg/namespace.
type NamespaceConfig struct {
	InitializeDefaults bool `env:"ORBIT_NAMESPACE_INITIALIZE_DEFAULTS" envDefault:"true"`
}

// SecretConfig holds the configuration keys consumed by pkg/secret.
type SecretConfig struct {
	MasterKey        string `env:"ORBIT_SECRET_MASTER_KEY"`
	DefaultNamespace string `env:"ORBIT_SECRET_DEFAULT_NAMESPACE" envDefault:"default"`
}

// AuthConfig holds the configuration keys consumed by pkg/authservice.
type AuthConfig struct {
	EnableAutoRefresh       bool `env:"ORBIT_AUTH_ENABLE_AUTO_REFRESH" envDefault:"true"`
	AutoRefreshIntervalMs   int  `env:"ORBIT_AUTH_AUTO_REFRESH_INTERVAL_MS" envDefault:"60000"`
	SessionRefreshThreshold int  `env:"ORBIT_AUTH_SESSION_REFRESH_THRESHOLD_MS" envDefault:"900000"`
}

// TelemetryConfig holds logging configuration.
type TelemetryConfig struct {
	LogLevel  string `env:"ORBIT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ORBIT_LOG_FORMAT" envDefault:"json"`
}

// Config holds all process configuration, loaded from environment variables.
type Config struct {
	Scheduler SchedulerConfig
	Node      NodeConfig
	Namespace NamespaceConfig
	Secret    SecretConfig
	Auth      AuthConfig
	Telemetry TelemetryConfig
}

// Load reads configuration from environment variables, applying defaults
// for every key left unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from env: %w", err)
	}
	return cfg, nil
}
