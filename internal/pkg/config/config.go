package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Fence      FenceConfig      `mapstructure:"fence"`
	PeopleFeed PeopleFeedConfig `mapstructure:"people_feed"`
	Assistant  AssistantConfig  `mapstructure:"assistant"`
	Directions DirectionsConfig `mapstructure:"directions"`
	Sessions   SessionsConfig   `mapstructure:"sessions"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// FenceConfig describes the campus geofence as a center plus a full span in
// degrees on each axis.
type FenceConfig struct {
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLon float64 `mapstructure:"center_lon"`
	SpanLat   float64 `mapstructure:"span_lat"`
	SpanLon   float64 `mapstructure:"span_lon"`
}

type PeopleFeedConfig struct {
	URL          string `mapstructure:"url"`
	PollInterval int    `mapstructure:"poll_interval"` // seconds
	Timeout      int    `mapstructure:"timeout"`       // seconds
	Embedded     bool   `mapstructure:"embedded"`      // poll in-process instead of via broker
}

type AssistantConfig struct {
	ChatURL      string `mapstructure:"chat_url"`
	DetectionURL string `mapstructure:"detection_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

type DirectionsConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type SessionsConfig struct {
	MaxIdleMinutes int `mapstructure:"max_idle_minutes"`
	PruneInterval  int `mapstructure:"prune_interval"` // seconds
}

type TemporalConfig struct {
	HostPort       string `mapstructure:"host_port"`
	TaskQueue      string `mapstructure:"task_queue"`
	FollowUpDelay  int    `mapstructure:"follow_up_delay"` // seconds
	AlertRecipient string `mapstructure:"alert_recipient"`
}

func (s SessionsConfig) MaxIdle() time.Duration {
	return time.Duration(s.MaxIdleMinutes) * time.Minute
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "guardify")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "guardify")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	// Villanova main campus.
	v.SetDefault("fence.center_lat", 40.0367)
	v.SetDefault("fence.center_lon", -75.3496)
	v.SetDefault("fence.span_lat", 0.02)
	v.SetDefault("fence.span_lon", 0.02)
	v.SetDefault("people_feed.url", "http://localhost:5000/people")
	v.SetDefault("people_feed.poll_interval", 1)
	v.SetDefault("people_feed.timeout", 5)
	v.SetDefault("people_feed.embedded", false)
	v.SetDefault("assistant.chat_url", "http://localhost:5001/chat")
	v.SetDefault("assistant.detection_url", "http://localhost:5001/transcriptions")
	v.SetDefault("assistant.timeout", 15)
	v.SetDefault("directions.url", "http://localhost:5002/routes")
	v.SetDefault("directions.timeout", 10)
	v.SetDefault("sessions.max_idle_minutes", 30)
	v.SetDefault("sessions.prune_interval", 60)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.task_queue", "GUARDIFY_ESCALATIONS")
	v.SetDefault("temporal.follow_up_delay", 120)
	v.SetDefault("temporal.alert_recipient", "campus-safety")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GUARDIFY_DATABASE_HOST → database.host
	v.SetEnvPrefix("GUARDIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Fence.CenterLat < -90 || c.Fence.CenterLat > 90 {
		errs = append(errs, fmt.Sprintf("fence.center_lat must be -90..90, got %g", c.Fence.CenterLat))
	}
	if c.Fence.CenterLon < -180 || c.Fence.CenterLon > 180 {
		errs = append(errs, fmt.Sprintf("fence.center_lon must be -180..180, got %g", c.Fence.CenterLon))
	}
	if c.Fence.SpanLat < 0 || c.Fence.SpanLon < 0 {
		errs = append(errs, "fence spans must not be negative")
	}
	if c.PeopleFeed.URL == "" {
		errs = append(errs, "people_feed.url is required")
	}
	if c.PeopleFeed.PollInterval <= 0 {
		errs = append(errs, "people_feed.poll_interval must be positive")
	}
	if c.Sessions.MaxIdleMinutes <= 0 {
		errs = append(errs, "sessions.max_idle_minutes must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
