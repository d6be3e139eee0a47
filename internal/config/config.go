package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Storage  StorageConfig
	CDN      CDNConfig
	Rater    RaterConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
	// RatingInterval is the minimum delay between rating submissions from
	// the same rater. Zero disables throttling.
	RatingInterval time.Duration
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// StorageConfig holds the legacy object bucket configuration. An empty bucket
// disables the storage client.
type StorageConfig struct {
	Region        string
	Bucket        string
	PublicBaseURL string
}

// CDNConfig holds image CDN configuration. Direct credentials take precedence;
// the proxy endpoints are used when only those are set. All empty disables the
// CDN and uploads fall back to legacy storage.
type CDNConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	// Proxy endpoints, for deployments where the credentials live behind
	// serverless functions.
	UploadEndpoint string
	DeleteEndpoint string
}

// RaterConfig holds rater identity token configuration
type RaterConfig struct {
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
}

// Load parses flags and environment variables to build configuration
func Load() *Config {
	cfg := &Config{}

	// Define flags with defaults
	httpAddr := flag.String("http", ":8080", "HTTP server address")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Cache TTL for gallery and rating reads")
	cacheBackend := flag.String("cache-backend", "memory", "Cache backend: memory or redis")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	ratingInterval := flag.Duration("rating-interval", 2*time.Second, "Minimum delay between rating submissions per rater")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	dbHost := flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort := flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser := flag.String("db-user", "postgres", "PostgreSQL user")
	dbPassword := flag.String("db-password", "postgres", "PostgreSQL password")
	dbName := flag.String("db-name", "portfolio", "PostgreSQL database name")
	dbSSLMode := flag.String("db-sslmode", "disable", "PostgreSQL SSL mode")

	flag.Parse()

	// Apply environment variable overrides
	applyEnvOverrides(httpAddr, cacheTTL, cacheBackend, redisAddr, ratingInterval, logLevel, dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	// Build config struct
	cfg.Server = ServerConfig{
		HTTPAddr:       *httpAddr,
		RatingInterval: *ratingInterval,
	}

	cfg.Cache = CacheConfig{
		Backend:   *cacheBackend,
		TTL:       *cacheTTL,
		RedisAddr: *redisAddr,
	}

	cfg.Database = DatabaseConfig{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPassword,
		Database: *dbName,
		SSLMode:  *dbSSLMode,
	}

	cfg.Logging = LoggingConfig{
		Level: *logLevel,
	}

	// Load storage, CDN, and rater config from environment
	cfg.Storage = loadStorageConfig()
	cfg.CDN = loadCDNConfig()
	cfg.Rater = loadRaterConfig()

	return cfg
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Region:        getEnvOrDefault("STORAGE_REGION", "us-east-1"),
		Bucket:        os.Getenv("STORAGE_BUCKET"),
		PublicBaseURL: os.Getenv("STORAGE_PUBLIC_URL"),
	}
}

func loadCDNConfig() CDNConfig {
	return CDNConfig{
		CloudName:      os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:         os.Getenv("CLOUDINARY_API_KEY"),
		APISecret:      os.Getenv("CLOUDINARY_API_SECRET"),
		Folder:         getEnvOrDefault("CLOUDINARY_FOLDER", "photos"),
		UploadEndpoint: os.Getenv("CDN_UPLOAD_ENDPOINT"),
		DeleteEndpoint: os.Getenv("CDN_DELETE_ENDPOINT"),
	}
}

func loadRaterConfig() RaterConfig {
	ttl := 365 * 24 * time.Hour
	if v := os.Getenv("RATER_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}

	return RaterConfig{
		TokenSecret: getEnvOrDefault("RATER_TOKEN_SECRET", "change-me-in-production"),
		TokenIssuer: getEnvOrDefault("RATER_TOKEN_ISSUER", "portfolio"),
		TokenTTL:    ttl,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func applyEnvOverrides(
	httpAddr *string,
	cacheTTL *time.Duration,
	cacheBackend *string,
	redisAddr *string,
	ratingInterval *time.Duration,
	logLevel *string,
	dbHost *string,
	dbPort *int,
	dbUser *string,
	dbPassword *string,
	dbName *string,
	dbSSLMode *string,
) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		*httpAddr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*cacheTTL = d
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		*cacheBackend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		*redisAddr = v
	}
	if v := os.Getenv("RATING_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*ratingInterval = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		*logLevel = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		*dbHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			*dbPort = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		*dbUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		*dbPassword = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		*dbName = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		*dbSSLMode = v
	}
}
