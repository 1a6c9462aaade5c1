// Package config loads client and dev-server settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"edupath/internal/utils"
)

// Session backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	APIURL      string
	HTTPTimeout time.Duration

	SessionBackend string
	SessionDir     string
	MasterKeyHex   string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string

	CADir    string
	Language string
	LogLevel string
	LogFile  string
	GUIAddr  string

	StubAddr        string
	StubJWTSecret   string
	StubTokenTTL    time.Duration
	StubCORSOrigins []string
}

var dotenvOnce sync.Once

// Load reads .env once (a missing file is fine) and then the environment.
func Load() Config {
	dotenvOnce.Do(func() { _ = godotenv.Load() })

	dataDir := utils.GetDataDir()
	return Config{
		APIURL:      strings.TrimRight(getenv("EDUPATH_API_URL", "http://localhost:8001"), "/"),
		HTTPTimeout: getenvDuration("EDUPATH_HTTP_TIMEOUT", 30*time.Second),

		SessionBackend: strings.ToLower(getenv("EDUPATH_SESSION_BACKEND", BackendFile)),
		SessionDir:     getenv("EDUPATH_SESSION_DIR", dataDir),
		MasterKeyHex:   os.Getenv("EDUPATH_MASTER_KEY_HEX"),
		SessionTTL:     getenvDuration("EDUPATH_SESSION_TTL", 0),
		RedisAddr:      getenv("EDUPATH_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("EDUPATH_REDIS_PASSWORD"),
		RedisDB:        getenvInt("EDUPATH_REDIS_DB", 0),
		RedisPrefix:    getenv("EDUPATH_REDIS_PREFIX", "edupath"),

		CADir:    os.Getenv("EDUPATH_CA_DIR"),
		Language: os.Getenv("EDUPATH_LANG"),
		LogLevel: getenv("EDUPATH_LOG_LEVEL", "info"),
		LogFile:  getenv("EDUPATH_LOG_FILE", utils.GetLogPath()),
		GUIAddr:  getenv("EDUPATH_GUI_ADDR", "127.0.0.1:8081"),

		StubAddr:        getenv("STUB_ADDR", ":8001"),
		StubJWTSecret:   getenv("STUB_JWT_SECRET", "dev-secret-change-me"),
		StubTokenTTL:    getenvDuration("STUB_TOKEN_TTL", 30*time.Minute),
		StubCORSOrigins: getenvList("STUB_CORS_ORIGINS", []string{"*"}),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getenvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
