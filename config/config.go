package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	CatalogSeed     = "seed"
	CatalogPostgres = "postgres"
)

type Config struct {
	Port              string
	StatusTick        time.Duration
	SimulateDelivered bool
	CatalogSource     string
	PublicBaseURL     string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	RedisHost     string
	RedisPort     string
	OrderStateTTL time.Duration

	KafkaBroker string
	OrderTopic  string
}

// Load reads the environment, after merging an optional .env file from the
// working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tick, err := time.ParseDuration(getEnv("STATUS_TICK", "1s"))
	if err != nil {
		return nil, fmt.Errorf("STATUS_TICK: %w", err)
	}
	if tick <= 0 {
		return nil, fmt.Errorf("STATUS_TICK must be positive, got %s", tick)
	}

	delivered, err := strconv.ParseBool(getEnv("SIMULATE_DELIVERED", "false"))
	if err != nil {
		return nil, fmt.Errorf("SIMULATE_DELIVERED: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("ORDER_STATE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("ORDER_STATE_TTL: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		StatusTick:        tick,
		SimulateDelivered: delivered,
		CatalogSource:     getEnv("CATALOG_SOURCE", CatalogSeed),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     os.Getenv("DB_NAME"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		OrderStateTTL: ttl,

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		OrderTopic:  getEnv("ORDER_TOPIC", "storefront-orders"),
	}

	switch cfg.CatalogSource {
	case CatalogSeed, CatalogPostgres:
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", CatalogSeed, CatalogPostgres, cfg.CatalogSource)
	}

	return cfg, nil
}

func (c *Config) RedisEnabled() bool { return c.RedisHost != "" }

func (c *Config) KafkaEnabled() bool { return c.KafkaBroker != "" }

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func InitPostgres(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewKafkaWriter(cfg *Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  cfg.OrderTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
