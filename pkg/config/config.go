package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Auth modes accepted by AUTH_MODE.
const (
	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis     RedisConfig
	Auth      AuthConfig
	Firebase  FirebaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Studio    StudioConfig
	Dashboard DashboardConfig
	RateLimit RateLimitConfig
	Relay     RelayConfig
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Mode      string
	JWTSecret string
}

// FirebaseConfig locates the hosted project and its collections.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	Collections     CollectionsConfig
}

// CollectionsConfig names the document-store collections read by the service.
type CollectionsConfig struct {
	Lessons       string
	Transactions  string
	Users         string
	Equipment     string
	Notifications string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StudioConfig holds studio-local calendar settings.
type StudioConfig struct {
	Timezone string
	Location *time.Location
}

// DashboardConfig governs dashboard exposure and raw-record cache tuning.
type DashboardConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RelayConfig tunes the push-notification relay worker.
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Mode:      strings.ToLower(strings.TrimSpace(v.GetString("AUTH_MODE"))),
		JWTSecret: v.GetString("JWT_SECRET"),
	}

	cfg.Firebase = FirebaseConfig{
		ProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
		CredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
		Collections: CollectionsConfig{
			Lessons:       v.GetString("COLLECTION_LESSONS"),
			Transactions:  v.GetString("COLLECTION_TRANSACTIONS"),
			Users:         v.GetString("COLLECTION_USERS"),
			Equipment:     v.GetString("COLLECTION_EQUIPMENT"),
			Notifications: v.GetString("COLLECTION_NOTIFICATIONS"),
		},
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	tz := v.GetString("STUDIO_TIMEZONE")
	cfg.Studio = StudioConfig{Timezone: tz, Location: loadLocation(tz)}

	cfg.Dashboard = DashboardConfig{
		Enabled:  v.GetBool("ENABLE_DASHBOARD"),
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
		Burst:             v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Relay = RelayConfig{
		PollInterval: parseDuration(v.GetString("RELAY_POLL_INTERVAL"), 15*time.Second),
		BatchSize:    v.GetInt("RELAY_BATCH_SIZE"),
		Workers:      v.GetInt("RELAY_WORKERS"),
		MaxRetries:   v.GetInt("RELAY_MAX_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("RELAY_RETRY_DELAY"), 5*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_MODE", AuthModeFirebase)
	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("COLLECTION_LESSONS", "lessons")
	v.SetDefault("COLLECTION_TRANSACTIONS", "transactions")
	v.SetDefault("COLLECTION_USERS", "users")
	v.SetDefault("COLLECTION_EQUIPMENT", "equipment")
	v.SetDefault("COLLECTION_NOTIFICATIONS", "notifications")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STUDIO_TIMEZONE", "Local")

	v.SetDefault("ENABLE_DASHBOARD", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")

	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.SetDefault("RELAY_POLL_INTERVAL", "15s")
	v.SetDefault("RELAY_BATCH_SIZE", 50)
	v.SetDefault("RELAY_WORKERS", 2)
	v.SetDefault("RELAY_MAX_RETRIES", 3)
	v.SetDefault("RELAY_RETRY_DELAY", "5s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// loadLocation resolves an IANA zone name, falling back to time.Local.
func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
