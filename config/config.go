package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr      string
	MongoURL        string
	MongoDBName     string
	RedisAddr       string
	IdentityBaseURL string
	IdentityAPIKey  string
	LikeQuota       int
	LikeWindow      time.Duration
}

// Load reads the environment, picking up a .env file first when one is
// present.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		ServerAddr:      getenv("SERVER_ADDR", "0.0.0.0:8080"),
		MongoURL:        getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:     getenv("MONGO_DBNAME", "chirper"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		IdentityBaseURL: os.Getenv("IDENTITY_URL"),
		IdentityAPIKey:  os.Getenv("IDENTITY_API_KEY"),
		LikeQuota:       getenvInt("LIKE_QUOTA", 10),
		LikeWindow:      time.Second,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
