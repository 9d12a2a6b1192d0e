package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "BLOG"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Blob      BlobConfig      `mapstructure:"blob"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
}

type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	DiagAddr string `mapstructure:"diagAddr"`
	BasePath string `mapstructure:"basePath"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"maxPoolSize"`
}

// DocumentsConfig selects where articles live: "mongo" or "memory".
type DocumentsConfig struct {
	Driver     string `mapstructure:"driver"`
	Collection string `mapstructure:"collection"`
}

// BlobConfig selects where thumbnails live: "gridfs", "redis", "local" or
// "memory".
type BlobConfig struct {
	Driver    string `mapstructure:"driver"`
	Bucket    string `mapstructure:"bucket"`
	LocalPath string `mapstructure:"localPath"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// NATSConfig enables article change events when URL is set.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subjectPrefix"`
}

type ThumbnailConfig struct {
	MaxBytes int64 `mapstructure:"maxBytes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.diagAddr", ":9999")
	v.SetDefault("server.basePath", "/api")
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "blog")
	v.SetDefault("mongo.maxPoolSize", 100)
	v.SetDefault("documents.driver", "mongo")
	v.SetDefault("documents.collection", "blogs")
	v.SetDefault("blob.driver", "gridfs")
	v.SetDefault("blob.bucket", "thumbnails")
	v.SetDefault("blob.localPath", "./data/thumbnails")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "thumbnail:")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subjectPrefix", "blog.articles")
	v.SetDefault("thumbnail.maxBytes", 10<<20)
}

// Load reads defaults, then the optional YAML file at path, then BLOG_*
// environment variables, each overriding the previous. A .env file in the
// working directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	switch c.Documents.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown documents.driver %q", c.Documents.Driver)
	}

	switch c.Blob.Driver {
	case "gridfs", "redis", "local", "memory":
	default:
		return fmt.Errorf("unknown blob.driver %q", c.Blob.Driver)
	}

	if c.Thumbnail.MaxBytes <= 0 {
		return fmt.Errorf("thumbnail.maxBytes must be positive, got %d", c.Thumbnail.MaxBytes)
	}

	return nil
}

// NeedsMongo reports whether any configured backend uses MongoDB.
func (c *Config) NeedsMongo() bool {
	return c.Documents.Driver == "mongo" || c.Blob.Driver == "gridfs"
}
