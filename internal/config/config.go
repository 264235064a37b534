package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port         string
	Env          string
	MongoURL     string
	RedisURL     string
	HistoryLimit int64
}

// Load loads configuration from environment variables.
func Load() *Config {
	// Load .env file if it exists (useful for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3010"
	}

	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	// Empty REDIS_URL runs the instance standalone, without
	// cross-instance fanout.
	redisURL := os.Getenv("REDIS_URL")

	limit := int64(50)
	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	return &Config{
		Port:         port,
		Env:          os.Getenv("APP_ENV"),
		MongoURL:     mongoURL,
		RedisURL:     redisURL,
		HistoryLimit: limit,
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}
