package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	StoreDriver  string
	MembersFile  string
	SeedFile     string
	SQLitePath   string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	CacheTTL     time.Duration
	CORSOrigins  []string
	RateLimit    float64
	SwaggerHost  string
	DirectoryURL string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "4444"),
		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		MembersFile:  getEnv("MEMBERS_FILE", "members.json"),
		SeedFile:     getEnv("SEED_FILE", "members.seed.json"),
		SQLitePath:   getEnv("SQLITE_PATH", "members.db"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/directory?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		CacheTTL:     time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),
		RateLimit:    getEnvFloat("RATE_LIMIT", 0),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		DirectoryURL: getEnv("DIRECTORY_URL", "http://localhost:4444"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
