package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	tests := []struct {
		name  string
		check func(*Config) bool
	}{
		{"scheduler max retries", func(c *Config) bool { return c.Scheduler.MaxRetries == 3 }},
		{"scheduler default priority", func(c *Config) bool { return c.Scheduler.DefaultPriority == 0 }},
		{"scheduler preemption disabled", func(c *Config) bool { return !c.Scheduler.EnablePreemption }},
		{"scheduler policy spread", func(c *Config) bool { return c.Scheduler.Policy == "spread" }},
		{"node heartbeat timeout", func(c *Config) bool { return c.Node.HeartbeatTimeoutMs == 30000 }},
		{"node heartbeat interval", func(c *Config) bool { return c.Node.HeartbeatCheckIntervalMs == 10000 }},
		{"node heartbeat monitoring enabled", func(c *Config) bool { return c.Node.EnableHeartbeatMonitoring }},
		{"namespace defaults enabled", func(c *Config) bool { return c.Namespace.InitializeDefaults }},
		{"secret default namespace", func(c *Config) bool { return c.Secret.DefaultNamespace == "default" }},
		{"auth auto refresh enabled", func(c *Config) bool { return c.Auth.EnableAutoRefresh }},
		{"auth auto refresh interval", func(c *Config) bool { return c.Auth.AutoRefreshIntervalMs == 60000 }},
		{"auth session refresh threshold", func(c *Config) bool { return c.Auth.SessionRefreshThreshold == 900000 }},
		{"log level info", func(c *Config) bool { return c.Telemetry.LogLevel == "info" }},
		{"log format json", func(c *Config) bool { return c.Telemetry.LogFormat == "json" }},
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(cfg) {
				t.Errorf("unexpected value for %s", tt.name)
			}
		})
	}
}
