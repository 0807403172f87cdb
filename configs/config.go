package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret signs tokens only outside production; Validate rejects it there.
const devJWTSecret = "replace-this-with-a-strong-secret"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	AppPort string
	Env     string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBSSLMode      string
	DBReplicaHosts []string
	AutoMigrate    bool

	JWTSecret    string
	JWTExpiresIn time.Duration
	BcryptCost   int

	RedisHost        string
	RedisPort        string
	RateLimitEnabled bool

	KafkaBrokers string
	KafkaTopic   string

	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3BucketName string
	S3UseSSL     bool
	S3PublicURL  string

	AllowedOrigins []string
	LogLevel       string
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort: getEnv("APP_PORT", ":3000"),
		Env:     getEnv("ENV", "development"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPass:         getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "social_db"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBReplicaHosts: splitList(os.Getenv("DB_REPLICA_HOSTS")),
		AutoMigrate:    getEnv("AUTO_MIGRATE", "true") == "true",

		JWTSecret:    getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiresIn: durationDef(os.Getenv("JWT_EXPIRES_IN"), 24*time.Hour),
		BcryptCost:   atoiDef(os.Getenv("BCRYPT_COST"), 12),

		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RateLimitEnabled: getEnv("RATE_LIMIT_ENABLED", "true") == "true",

		KafkaBrokers: strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "social.events"),

		S3Endpoint:   strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", "minio"),
		S3SecretKey:  getEnv("S3_SECRET_KEY", "minio123"),
		S3BucketName: getEnv("S3_BUCKET_NAME", "media-bucket"),
		S3UseSSL:     getEnv("S3_USE_SSL", "false") == "true",
		S3PublicURL:  strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),

		AllowedOrigins: append([]string{"http://localhost:3000", "http://localhost:3001"},
			splitList(os.Getenv("ALLOWED_ORIGINS"))...),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate reports settings that must not reach a production process.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

func (c *Config) DSN() string {
	return c.dsnFor(c.DBHost)
}

// ReplicaDSNs renders one DSN per replica host, sharing credentials with the primary.
func (c *Config) ReplicaDSNs() []string {
	out := make([]string, 0, len(c.DBReplicaHosts))
	for _, h := range c.DBReplicaHosts {
		out = append(out, c.dsnFor(h))
	}
	return out
}

func (c *Config) dsnFor(host string) string {
	port := c.DBPort
	if h, p, ok := strings.Cut(host, ":"); ok {
		host, port = h, p
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, c.DBUser, c.DBPass, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) RedisAddr() string { return c.RedisHost + ":" + c.RedisPort }

func (c *Config) String() string {
	return fmt.Sprintf("AppPort=%s, Env=%s, DBHost=%s, DBName=%s, Replicas=%d, Redis=%s, Kafka=%q, S3Endpoint=%q",
		c.AppPort, c.Env, c.DBHost, c.DBName, len(c.DBReplicaHosts), c.RedisAddr(), c.KafkaBrokers, c.S3Endpoint)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func atoiDef(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func durationDef(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	// bare "7d" style values
	if strings.HasSuffix(s, "d") {
		if n, err := strconv.Atoi(strings.TrimSuffix(s, "d")); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
