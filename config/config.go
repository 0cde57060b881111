// Package config provides environment-driven settings for the cadastral service.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	defaultPort          = 8080
	defaultSessionMaxAge = 0 // browser-session cookie, dropped when the tab closes
	defaultSeedSource    = "otedola_estate.json"
)

// LoadEnv reads an optional .env file into the process environment.
// Variables already set in the environment win over the file.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("CADASTRAL_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("CADASTRAL_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("CADASTRAL_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return filepath.Join(GetDBFolderPath(), GetName()+".db")
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("CADASTRAL_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// GetSeedSource returns the file path or http(s) URL of the parcel feature collection.
func GetSeedSource() string {
	src := os.Getenv("CADASTRAL_SEED_SOURCE")
	if src == "" {
		return defaultSeedSource
	}
	return src
}

func GetListen() string {
	return os.Getenv("CADASTRAL_LISTEN")
}

func GetPort() int {
	return getInt("CADASTRAL_PORT", defaultPort)
}

// GetBasePath returns the route prefix, always with leading and trailing slash.
func GetBasePath() string {
	basePath := os.Getenv("CADASTRAL_BASE_PATH")
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}

// GetSessionSecret returns the cookie signing secret, or "" when one should be generated.
func GetSessionSecret() string {
	return os.Getenv("CADASTRAL_SESSION_SECRET")
}

// GetSessionMaxAge returns the session cookie lifetime in minutes. Zero keeps the
// cookie for the browser session only.
func GetSessionMaxAge() int {
	return getInt("CADASTRAL_SESSION_MAX_AGE", defaultSessionMaxAge)
}

// GetWebDomain returns the only Host the server answers for, or "" for any.
func GetWebDomain() string {
	return os.Getenv("CADASTRAL_WEB_DOMAIN")
}

// GetCertFile and GetKeyFile locate the TLS key pair. HTTPS is served only
// when both load.
func GetCertFile() string {
	return os.Getenv("CADASTRAL_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("CADASTRAL_KEY_FILE")
}

// GetSessionStore names the session backend: "cookie" (default) or "redis".
func GetSessionStore() string {
	store := os.Getenv("CADASTRAL_SESSION_STORE")
	if store == "" {
		return "cookie"
	}
	return store
}

// GetRedisAddr returns the Redis address for the redis session store. Empty
// starts an embedded server.
func GetRedisAddr() string {
	return os.Getenv("CADASTRAL_REDIS_ADDR")
}

// IsMetricsEnabled reports whether the Prometheus endpoint is served.
func IsMetricsEnabled() bool {
	return os.Getenv("CADASTRAL_METRICS") == "true"
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
