package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Directory sources for the API.
const (
	SourceSupabase = "supabase"
	SourceMySQL    = "mysql"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string
	GatewayRPS        int

	MySQLDSN        string
	DirectorySource string

	RedisAddr string
	RedisDB   int
	RedisPass string

	Workers         int
	CacheTTL        time.Duration
	SessionTTL      time.Duration
	RateLimitPerMin int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
		}
		return def
	}
	c := Config{
		AppEnv:            env("APP_ENV", "prod"),
		HTTPAddr:          env("HTTP_ADDR", ":8080"),
		MetricsAddr:       env("METRICS_ADDR", ":9100"),
		SupabaseURL:       strings.TrimRight(env("SUPABASE_URL", ""), "/"),
		SupabaseKey:       env("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret: env("SUPABASE_JWT_SECRET", ""),
		GatewayRPS:        atoi("GATEWAY_RPS", 5),
		MySQLDSN:          env("MYSQL_DSN", "root:root@tcp(localhost:3306)/campus_life?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		DirectorySource:   strings.ToLower(env("DIRECTORY_SOURCE", SourceSupabase)),
		RedisAddr:         env("REDIS_ADDR", "localhost:6379"),
		RedisDB:           atoi("REDIS_DB", 0),
		RedisPass:         env("REDIS_PASSWORD", ""),
		Workers:           atoi("INGEST_WORKERS", 4),
		CacheTTL:          time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SessionTTL:        time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,
		RateLimitPerMin:   atoi("RATE_LIMIT_PER_MIN", 600),
	}
	if c.DirectorySource != SourceSupabase && c.DirectorySource != SourceMySQL {
		log.Warn().Str("source", c.DirectorySource).Msg("unknown DIRECTORY_SOURCE, using supabase")
		c.DirectorySource = SourceSupabase
	}
	if c.SupabaseKey == "" {
		log.Warn().Msg("SUPABASE_ANON_KEY is empty")
	}
	if c.SupabaseJWTSecret == "" {
		log.Warn().Msg("SUPABASE_JWT_SECRET is empty; signed-in sessions will be rejected")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
