// Package config loads table definitions and cache settings from a YAML
// file, with credentials taken from the environment (optionally seeded from
// a .env file).
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	dynamodbv2 "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/cachekit/ddbsource/cache"
	"github.com/cachekit/ddbsource/table"
)

// Config is the root configuration: the tables served by data sources and
// the cache backend shared between them.
type Config struct {
	AWS    AWSSettings   `yaml:"aws"`
	Cache  CacheSettings `yaml:"cache"`
	Tables []TableConfig `yaml:"tables"`
}

// AWSSettings configures the DynamoDB client. AccessKey and SecretKey are
// never read from YAML; they come from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY.
type AWSSettings struct {
	Region string `yaml:"region"`

	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// CacheSettings selects and configures the cache backend.
type CacheSettings struct {
	// Backend is one of "memory" (default), "redis", or "badger".
	Backend    string         `yaml:"backend"`
	MaxEntries int            `yaml:"maxEntries,omitempty"`
	Redis      RedisSettings  `yaml:"redis,omitempty"`
	Badger     BadgerSettings `yaml:"badger,omitempty"`
}

// RedisSettings configures the Redis backend. Addr and Password fall back to
// REDIS_ADDR and REDIS_PASSWORD.
type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"-"`
	DB       int    `yaml:"db,omitempty"`
}

// BadgerSettings configures the BadgerDB backend.
type BadgerSettings struct {
	Path string `yaml:"path,omitempty"`
}

// TableConfig describes one table and its caching defaults.
type TableConfig struct {
	Name         string     `yaml:"name"`
	PartitionKey KeyConfig  `yaml:"partitionKey"`
	SortKey      *KeyConfig `yaml:"sortKey,omitempty"`
	// KeyPrefix is the literal prefix for this table's cache keys.
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
	// TTLSeconds is the cache time-to-live callers should pass for this
	// table's reads and writes. Zero means do not cache.
	TTLSeconds int `yaml:"ttlSeconds,omitempty"`
}

// KeyConfig describes a key attribute definition.
type KeyConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "S", "N", or "B"
}

// Load reads the YAML file at path. A .env file in the working directory is
// loaded first when present, then credential fields are filled from the
// environment.
func Load(path string) (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.AWS.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.AWS.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = os.Getenv("AWS_REGION")
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = os.Getenv("REDIS_ADDR")
	}
	cfg.Cache.Redis.Password = os.Getenv("REDIS_PASSWORD")

	for i, tc := range cfg.Tables {
		if _, err := tc.Definition(); err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
	}
	return &cfg, nil
}

// Definition converts the table configuration to a runtime definition.
func (t TableConfig) Definition() (table.Definition, error) {
	def := table.Definition{
		Name: t.Name,
		Keys: table.KeySchema{
			PartitionKey: table.KeyDef{Name: t.PartitionKey.Name, Kind: table.KeyKind(t.PartitionKey.Kind)},
		},
	}
	if t.SortKey != nil {
		def.Keys.SortKey = table.KeyDef{Name: t.SortKey.Name, Kind: table.KeyKind(t.SortKey.Kind)}
	}
	if def.Name == "" {
		return table.Definition{}, fmt.Errorf("table name is required")
	}
	if err := def.Keys.Validate(); err != nil {
		return table.Definition{}, fmt.Errorf("table %q: %w", t.Name, err)
	}
	return def, nil
}

// TTL returns the configured cache time-to-live for the table.
func (t TableConfig) TTL() time.Duration {
	return time.Duration(t.TTLSeconds) * time.Second
}

// NewCache builds the configured cache backend.
func (c CacheSettings) NewCache() (cache.Cache, error) {
	var opts []cache.Option
	if c.MaxEntries > 0 {
		opts = append(opts, cache.WithMaxEntries(c.MaxEntries))
	}
	switch c.Backend {
	case "", "memory":
		return cache.NewMemory(opts...), nil
	case "redis":
		if c.Redis.Addr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		return cache.NewRedis(client, opts...), nil
	case "badger":
		return cache.NewBadger(cache.BadgerOptions{Path: c.Badger.Path})
	}
	return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
}

// NewDynamoDBClient builds a DynamoDB client for the configured region,
// using static credentials when both keys are set and the default provider
// chain otherwise.
func (a AWSSettings) NewDynamoDBClient(ctx context.Context) (*dynamodbv2.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(a.Region),
	}
	if a.AccessKey != "" && a.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.AccessKey, a.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return dynamodbv2.NewFromConfig(cfg), nil
}
