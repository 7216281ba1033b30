package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every runtime knob, loaded from the environment.
type Config struct {
	HTTPPort        string
	RawDataDir      string
	SQLitePath      string
	QdrantHost      string
	QdrantPort      int
	QdrantAPIKey    string
	EmbedServiceURL string
	EmbedHealthURL  string
	EmbeddingDims   int
	FetchTimeout    time.Duration
	RespectRobots   bool
	SOCKS5Proxy     string
}

// Load reads the configuration from environment variables with
// defaults matching a local single-machine setup. Callers are expected
// to have loaded a .env file beforehand.
func Load() Config {
	return Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RawDataDir:      getEnv("RAW_DATA_DIR", "data/raw"),
		SQLitePath:      getEnv("SQLITE_PATH", "data/webscraper.db"),
		QdrantHost:      getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:      getEnvAsInt("QDRANT_PORT", 6334),
		QdrantAPIKey:    getEnv("QDRANT_API_KEY", ""),
		EmbedServiceURL: getEnv("EMBEDDING_HOST", "http://localhost:5050/embed"),
		EmbedHealthURL:  getEnv("EMBEDDING_HEALTH_URL", "http://localhost:5050/health"),
		EmbeddingDims:   getEnvAsInt("EMBEDDING_DIMS", 384),
		FetchTimeout:    time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		RespectRobots:   getEnvAsBool("RESPECT_ROBOTS", false),
		SOCKS5Proxy:     getEnv("SOCKS5_PROXY", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
