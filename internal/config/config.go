package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable with STARTPAGE_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Storage    string // sqlite | redis | memory
	SQLitePath string // database file when Storage is sqlite
	Profile    string // storage namespace, one set of engines and pins per profile

	SeedFile       string        // optional YAML replacing the built-in defaults
	BookmarkFile   string        // optional Homepage bookmarks.yaml imported as default pins
	ServiceFile    string        // optional Homepage services.yaml imported as default pins
	ReloadDebounce time.Duration // quiet period before a changed file is reloaded
	BlockDomains   []string      // domains excluded from the built-in web engines

	BasePath string // prefix for root-relative links in the page (ex: "/start")

	SuggestURL      string        // OpenSearch suggestion template with %s, empty disables suggestions
	SuggestTimeout  time.Duration // per-fetch timeout
	SuggestCacheTTL time.Duration // how long a suggestion list is cached
	JanitorInterval time.Duration // prune interval of the in-process suggestion cache

	// Redis, used as storage when Storage is redis and as suggestion cache
	// whenever an address is configured.
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // per-client burst on /search and /api, 0 disables limiting
	RatePerMin   int      // per-client refill rate
}

// Load reads the configuration from the environment and panics on fatal
// misconfiguration.
func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STARTPAGE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("STARTPAGE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("STARTPAGE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STARTPAGE_PRETTY_LOG", true),

		// Storage
		Storage:    strings.ToLower(getenv("STARTPAGE_STORAGE", StorageSQLite)),
		SQLitePath: getenv("STARTPAGE_SQLITE_PATH", "./data/startpage.db"),
		Profile:    getenv("STARTPAGE_PROFILE", "default"),

		// Default sources
		SeedFile:       getenv("STARTPAGE_SEED_FILE", ""),
		BookmarkFile:   getenv("STARTPAGE_BOOKMARK_FILE", ""),
		ServiceFile:    getenv("STARTPAGE_SERVICE_FILE", ""),
		ReloadDebounce: mustDuration("STARTPAGE_RELOAD_DEBOUNCE", 250*time.Millisecond),
		BlockDomains:   splitAndTrim(getenv("STARTPAGE_BLOCK_DOMAINS", "")),

		BasePath: getenv("STARTPAGE_BASE_PATH", ""),

		// Suggestions
		SuggestURL:      getenv("STARTPAGE_SUGGEST_URL", ""),
		SuggestTimeout:  mustDuration("STARTPAGE_SUGGEST_TIMEOUT", 2*time.Second),
		SuggestCacheTTL: mustDuration("STARTPAGE_SUGGEST_CACHE_TTL", time.Hour),
		JanitorInterval: mustDuration("STARTPAGE_CACHE_JANITOR_INTERVAL", 10*time.Minute),

		// Redis settings
		RedisAddr:             getenv("STARTPAGE_REDIS_ADDR", ""),
		RedisUser:             getenv("STARTPAGE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("STARTPAGE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("STARTPAGE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("STARTPAGE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("STARTPAGE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("STARTPAGE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("STARTPAGE_TRUST_PROXY", false),
		RateBurst:    getenvInt("STARTPAGE_RATE_BURST", 30),
		RatePerMin:   getenvInt("STARTPAGE_RATE_PER_MIN", 120),
	}

	if !slices.Contains([]string{StorageSQLite, StorageRedis, StorageMemory}, cfg.Storage) {
		panic(fmt.Sprintf("❌ FATAL: STARTPAGE_STORAGE must be sqlite, redis or memory, got %q", cfg.Storage))
	}

	if cfg.Storage == StorageRedis {
		cfg.RedisAddr = requireEnv("STARTPAGE_REDIS_ADDR")
		cfg.RedisDB = requireEnvInt("STARTPAGE_REDIS_DB")
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: STARTPAGE_REDIS_PASSWORD is required when STARTPAGE_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.SuggestURL != "" && !strings.Contains(cfg.SuggestURL, "%s") {
		panic("❌ FATAL: STARTPAGE_SUGGEST_URL must contain a %s placeholder")
	}

	return cfg
}

// UsesRedis reports whether a Redis connection is needed.
func (c *Config) UsesRedis() bool {
	return c.Storage == StorageRedis || c.RedisAddr != ""
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
