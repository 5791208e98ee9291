package config

import (
	"os"
	"time"
)

type Config struct {
	Address       string
	MongoURI      string
	MongoDatabase string
	JaegerAddress string
	JWTSecret     string
	TokenTTL      time.Duration
}

func GetConfig() Config {
	return Config{
		Address:       envOr("TASKS_SERVICE_ADDRESS", ":8000"),
		MongoURI:      os.Getenv("MONGO_DB_URI"),
		MongoDatabase: envOr("MONGO_DB_NAME", "task-management"),
		JaegerAddress: os.Getenv("JAEGER_ADDRESS"),
		JWTSecret:     os.Getenv("SECRET_KEY_AUTH"),
		TokenTTL:      ttlOr("TOKEN_TTL", 240*time.Hour),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ttlOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ttl, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return ttl
}
