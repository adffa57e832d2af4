package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	APIBaseURL    string
	APITimeout    time.Duration
	LogLevel      string
	LogFile       string
	SessionSecret string
	CookieSecure  bool
	RedisAddr     string
	RedisPassword string
	CatalogTTL    time.Duration
	KafkaBrokers  []string
	KafkaTopic    string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		DBDSN:         envDefault("DB_DSN", "gravure.db"),
		APIBaseURL:    strings.TrimRight(envDefault("API_BASE_URL", "http://localhost:8000/api"), "/"),
		APITimeout:    envDuration("API_TIMEOUT", 10*time.Second),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE", false),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CatalogTTL:    envDuration("CATALOG_TTL", 5*time.Minute),
		KafkaBrokers:  csv(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    envDefault("KAFKA_TOPIC", "gravure.activity"),
	}
	if cfg.SessionSecret == "" {
		log.Printf("[config] SESSION_SECRET is empty; using a development secret")
		cfg.SessionSecret = "dev-only-session-secret"
	}
	log.Printf("[config] PORT=%s DB_DSN=%s API_BASE_URL=%s REDIS=%t KAFKA=%t",
		cfg.Port, cfg.DBDSN, cfg.APIBaseURL, cfg.RedisAddr != "", len(cfg.KafkaBrokers) > 0)
	return cfg
}

func envDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("[config] invalid %s=%q, using %s", key, v, def)
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func csv(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
