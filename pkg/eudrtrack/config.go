package eudrtrack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. EUDR_REMOTE_URL for
// remote.url.
const EnvPrefix = "EUDR"

// Config is the whole runtime configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	// Offline is the mode used until a preference is stored.
	Offline bool          `mapstructure:"offline"`
	Log     LogConfig     `mapstructure:"log"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

type StorageConfig struct {
	// Driver is one of memory, file, sqlite, postgres or redis.
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	RedisURL    string `mapstructure:"redis_url"`
	// Quota caps the bytes held by the memory driver; 0 means unlimited.
	Quota int `mapstructure:"quota"`
}

type RemoteConfig struct {
	URL       string        `mapstructure:"url"`
	Transport string        `mapstructure:"transport"`
	Codec     string        `mapstructure:"codec"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

type ArchiveConfig struct {
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", ".eudrtrack")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.redis_url", "redis://localhost:6379/0")
	v.SetDefault("storage.quota", 0)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.transport", "http")
	v.SetDefault("remote.codec", "json")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("offline", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", false)
	v.SetDefault("archive.s3_region", "us-east-1")
	v.SetDefault("archive.s3_endpoint", "")
	v.SetDefault("archive.s3_path_style", false)
	return v
}

// loadConfig reads the optional config file and decodes v.
func loadConfig(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "file", "sqlite", "redis":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Remote.Transport {
	case "http", "ws":
	default:
		return fmt.Errorf("unknown remote.transport %q", c.Remote.Transport)
	}
	switch c.Remote.Codec {
	case "json", "cbor":
	default:
		return fmt.Errorf("unknown remote.codec %q", c.Remote.Codec)
	}
	return nil
}
