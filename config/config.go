package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
}

// ServerConfig.RenderTimeout bounds how long a page waits for catalog data
// before rendering its loading state.
type ServerConfig struct {
	Port          string
	Env           string
	RenderTimeout time.Duration
}

type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CacheConfig struct {
	KeepUnused    time.Duration
	SweepInterval time.Duration
}

// RedisConfig is optional; an empty Addr disables the shared payload store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// DatabaseConfig is optional; an empty URL disables the login audit store.
type DatabaseConfig struct {
	URL string
}

// KafkaConfig is optional; no brokers disables event publishing and consuming.
type KafkaConfig struct {
	Brokers       []string
	TopicCatalog  string
	TopicLogin    string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			Env:           getEnv("ENV", "development"),
			RenderTimeout: getSeconds("RENDER_TIMEOUT_SECONDS", 3),
		},
		Catalog: CatalogConfig{
			BaseURL: strings.TrimRight(getEnv("CATALOG_BASE_URL", "https://64074f8d77c1a905a0f504d3.mockapi.io/api/v1"), "/"),
			Timeout: getSeconds("CATALOG_TIMEOUT_SECONDS", 10),
		},
		Cache: CacheConfig{
			KeepUnused:    getSeconds("CACHE_KEEP_UNUSED_SECONDS", 60),
			SweepInterval: getSeconds("CACHE_SWEEP_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      getSeconds("REDIS_TTL_SECONDS", 300),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			TopicCatalog:  getEnv("KAFKA_TOPIC_CATALOG_EVENTS", "catalog-events"),
			TopicLogin:    getEnv("KAFKA_TOPIC_LOGIN_EVENTS", "login-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "storefront-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, catalog=%s", cfg.Server.Env, cfg.Server.Port, cfg.Catalog.BaseURL)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getSeconds(key string, defaultVal int) time.Duration {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultVal)))
	if err != nil || n < 0 {
		n = defaultVal
	}
	return time.Duration(n) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
