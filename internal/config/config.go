// Package config loads service configuration from a YAML file, FOODEXPRESS_* environment variables and flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = "FOODEXPRESS"

type Config struct {
	Server          Server        `mapstructure:"server"`
	Logging         Logging       `mapstructure:"logging"`
	Snapshot        Snapshot      `mapstructure:"snapshot"`
	Events          Events        `mapstructure:"events"`
	Fixtures        Fixtures      `mapstructure:"fixtures"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Server struct {
	Addr        string   `mapstructure:"addr"`
	Playground  bool     `mapstructure:"playground"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	// PublicURL is the base URL of the customer front end. Order QR codes encode
	// <PublicURL>/orders/<id>, a page served by the front end, not by this service.
	PublicURL string `mapstructure:"public_url"`
}

type Logging struct {
	// Format is "text" or "json".
	Format    string `mapstructure:"format"`
	Verbosity int    `mapstructure:"verbosity"`
}

type Snapshot struct {
	// Backend is one of "file", "redis", "postgres", "s3" or "none".
	Backend  string           `mapstructure:"backend"`
	File     SnapshotFile     `mapstructure:"file"`
	Redis    SnapshotRedis    `mapstructure:"redis"`
	Postgres SnapshotPostgres `mapstructure:"postgres"`
	S3       SnapshotS3       `mapstructure:"s3"`
}

type SnapshotFile struct {
	Path string `mapstructure:"path"`
}

type SnapshotRedis struct {
	Addr string `mapstructure:"addr"`
	Key  string `mapstructure:"key"`
}

type SnapshotPostgres struct {
	DSN  string `mapstructure:"dsn"`
	Name string `mapstructure:"name"`
}

type SnapshotS3 struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	Key    string `mapstructure:"key"`
}

type Events struct {
	Kafka Kafka `mapstructure:"kafka"`
}

type Kafka struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Fixtures struct {
	// Path overrides the embedded seed data when set.
	Path string `mapstructure:"path"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":4000")
	v.SetDefault("server.playground", true)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.public_url", "http://localhost:4000")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.verbosity", 0)
	v.SetDefault("snapshot.backend", "file")
	v.SetDefault("snapshot.file.path", "data/db.json")
	v.SetDefault("snapshot.redis.addr", "localhost:6379")
	v.SetDefault("snapshot.redis.key", "foodexpress:snapshot")
	v.SetDefault("snapshot.postgres.dsn", "")
	v.SetDefault("snapshot.postgres.name", "default")
	v.SetDefault("snapshot.s3.region", "eu-west-3")
	v.SetDefault("snapshot.s3.bucket", "")
	v.SetDefault("snapshot.s3.key", "foodexpress/db.json")
	v.SetDefault("events.kafka.enabled", false)
	v.SetDefault("events.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("events.kafka.topic", "foodexpress.orders")
	v.SetDefault("fixtures.path", "")
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// Load reads cfgFile when it is given and decodes v into a Config.
// Environment variables use the FOODEXPRESS_ prefix with dots replaced by underscores,
// e.g. FOODEXPRESS_SNAPSHOT_BACKEND.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) Validate() error {
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", cfg.Logging.Format)
	}

	switch cfg.Snapshot.Backend {
	case "file":
		if cfg.Snapshot.File.Path == "" {
			return fmt.Errorf("snapshot.file.path is required")
		}
	case "redis":
		if cfg.Snapshot.Redis.Addr == "" {
			return fmt.Errorf("snapshot.redis.addr is required")
		}
	case "postgres":
		if cfg.Snapshot.Postgres.DSN == "" {
			return fmt.Errorf("snapshot.postgres.dsn is required")
		}
	case "s3":
		if cfg.Snapshot.S3.Bucket == "" {
			return fmt.Errorf("snapshot.s3.bucket is required")
		}
	case "none":
	default:
		return fmt.Errorf("unknown snapshot.backend %q", cfg.Snapshot.Backend)
	}

	if cfg.Events.Kafka.Enabled && len(cfg.Events.Kafka.Brokers) == 0 {
		return fmt.Errorf("events.kafka.brokers is required when kafka is enabled")
	}

	return nil
}
