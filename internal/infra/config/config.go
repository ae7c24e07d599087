package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Observers ObserversConfig `yaml:"observers"`
	Horizon   HorizonConfig   `yaml:"horizon"`
	Cache     CacheConfig     `yaml:"cache"`
	Events    EventsConfig    `yaml:"events"`
	Recommend RecommendConfig `yaml:"recommend"`
	Refresh   RefreshConfig   `yaml:"refresh"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for read-only computations.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CatalogConfig selects the target catalog backend.
type CatalogConfig struct {
	Postgres    PostgresConfig `yaml:"postgres"`
	SeedBuiltin bool           `yaml:"seedBuiltin"`
}

// ObserversConfig selects the observer store and the locations loaded at startup.
type ObserversConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Seed     []ObserverSeed `yaml:"seed"`
}

// ObserverSeed describes a location registered when the service starts.
type ObserverSeed struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Latitude   float64 `yaml:"latitude"`
	Longitude  float64 `yaml:"longitude"`
	Elevation  float64 `yaml:"elevation"`
	Timezone   string  `yaml:"timezone"`
	HorizonKey string  `yaml:"horizonKey"`
}

// HorizonConfig points at the object store holding horizon profile files.
type HorizonConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSsl"`
}

// CacheConfig controls the visibility window cache.
type CacheConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// EventsConfig controls where refreshed recommendations are published.
type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RecommendConfig holds the defaults applied to recommendation requests.
type RecommendConfig struct {
	DefaultRecommender string  `yaml:"defaultRecommender"`
	MinAltitude        float64 `yaml:"minAltitude"`
	MaxTargets         int     `yaml:"maxTargets"`
	Parallelism        int     `yaml:"parallelism"`
}

// RefreshConfig schedules background recomputation for watched observers.
type RefreshConfig struct {
	Interval    time.Duration `yaml:"interval"`
	ObserverIDs []string      `yaml:"observerIds"`
	Recommender string        `yaml:"recommender"`
}

// Load reads configuration from a YAML file, an optional .env file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("CATALOG_POSTGRES_DSN"); v != "" {
		cfg.Catalog.Postgres.DSN = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CATALOG_SEED_BUILTIN"); v != "" {
		cfg.Catalog.SeedBuiltin = parseBool(v)
	}
	if v := os.Getenv("OBSERVERS_POSTGRES_DSN"); v != "" {
		cfg.Observers.Postgres.DSN = v
	}
	if v := os.Getenv("HORIZON_S3_ENABLED"); v != "" {
		cfg.Horizon.Enabled = parseBool(v)
	}
	if v := os.Getenv("HORIZON_S3_ENDPOINT"); v != "" {
		cfg.Horizon.Endpoint = v
	}
	if v := os.Getenv("HORIZON_S3_BUCKET"); v != "" {
		cfg.Horizon.Bucket = v
	}
	if v := os.Getenv("HORIZON_S3_PREFIX"); v != "" {
		cfg.Horizon.Prefix = v
	}
	if v := os.Getenv("HORIZON_S3_REGION"); v != "" {
		cfg.Horizon.Region = v
	}
	if v := os.Getenv("HORIZON_S3_ACCESS_KEY"); v != "" {
		cfg.Horizon.AccessKey = v
	}
	if v := os.Getenv("HORIZON_S3_SECRET_KEY"); v != "" {
		cfg.Horizon.SecretKey = v
	}
	if v := os.Getenv("HORIZON_S3_USE_SSL"); v != "" {
		cfg.Horizon.UseSSL = parseBool(v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("EVENTS_ENABLED"); v != "" {
		cfg.Events.Enabled = parseBool(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Events.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC_RECOMMENDATIONS"); v != "" {
		cfg.Events.Topic = v
	}
	if v := os.Getenv("RECOMMEND_DEFAULT"); v != "" {
		cfg.Recommend.DefaultRecommender = v
	}
	if v := os.Getenv("RECOMMEND_MIN_ALTITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Recommend.MinAltitude = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_MAX_TARGETS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.MaxTargets = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_PARALLELISM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.Parallelism = parsed
		}
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Refresh.Interval = parsed
		}
	}
	if v := os.Getenv("REFRESH_OBSERVERS"); v != "" {
		cfg.Refresh.ObserverIDs = splitList(v)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 100 * time.Millisecond,
				Exclude: []string{
					"/api/v1/observers",
				},
			},
		},
		Catalog: CatalogConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SeedBuiltin: true,
		},
		Observers: ObserversConfig{
			Postgres: PostgresConfig{
				MaxConns: 2,
			},
		},
		Horizon: HorizonConfig{
			Prefix: "horizons/",
			UseSSL: true,
		},
		Cache: CacheConfig{
			TTL: 30 * time.Minute,
		},
		Events: EventsConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "skyplan.recommendations",
		},
		Recommend: RecommendConfig{
			DefaultRecommender: "visibility",
			MinAltitude:        20,
			MaxTargets:         20,
			Parallelism:        8,
		},
		Refresh: RefreshConfig{
			Interval: 5 * time.Minute,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff < 0 {
			return errors.New("http.retry.baseBackoff cannot be negative")
		}
	}
	if c.Recommend.MinAltitude < 0 || c.Recommend.MinAltitude > 90 {
		return errors.New("recommend.minAltitude must be within [0, 90]")
	}
	if c.Recommend.MaxTargets <= 0 {
		return errors.New("recommend.maxTargets must be positive")
	}
	if c.Recommend.Parallelism <= 0 {
		return errors.New("recommend.parallelism must be positive")
	}
	if strings.TrimSpace(c.Recommend.DefaultRecommender) == "" {
		return errors.New("recommend.defaultRecommender cannot be empty")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Horizon.Enabled && (strings.TrimSpace(c.Horizon.Endpoint) == "" || strings.TrimSpace(c.Horizon.Bucket) == "") {
		return errors.New("horizon.endpoint and horizon.bucket are required when the horizon store is enabled")
	}
	if c.Events.Enabled {
		if len(c.Events.Brokers) == 0 {
			return errors.New("events.brokers cannot be empty when events are enabled")
		}
		if strings.TrimSpace(c.Events.Topic) == "" {
			return errors.New("events.topic cannot be empty when events are enabled")
		}
	}
	if len(c.Refresh.ObserverIDs) > 0 && c.Refresh.Interval <= 0 {
		return errors.New("refresh.interval must be positive when observers are watched")
	}
	for i, seed := range c.Observers.Seed {
		if strings.TrimSpace(seed.ID) == "" {
			return fmt.Errorf("observers.seed[%d].id cannot be empty", i)
		}
		if seed.Latitude < -90 || seed.Latitude > 90 {
			return fmt.Errorf("observers.seed[%d].latitude out of range", i)
		}
		if seed.Longitude < -180 || seed.Longitude > 180 {
			return fmt.Errorf("observers.seed[%d].longitude out of range", i)
		}
	}
	return nil
}
