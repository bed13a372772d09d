package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the server reads from the environment.
// Empty credentials disable the matching provider.
type Config struct {
	Port          string
	DatabaseURL   string
	DBPath        string
	RedisAddr     string
	DefaultOrigin string

	ProviderTimeout      time.Duration
	ProviderMaxAttempts  int
	ProviderRetryBackoff time.Duration

	GeoNamesUser    string
	ORSKey          string
	OpenTripMapKeys []string
	WikidataURL     string
	OverpassURL     string
	ElasticURL      string
	ElasticIndex    string
	ElasticSniff    bool

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	SigningKey       string
	ClientID         string
	ClientSecretHash string
	AllowedOrigins   []string
}

// Load reads the configuration. Call godotenv.Load first to pick up a .env file.
func Load() Config {
	return Config{
		Port:          Get("PORT", "8080"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		DBPath:        Get("DB_PATH", "data/app.db"),
		RedisAddr:     Get("REDIS_ADDR", ""),
		DefaultOrigin: Get("DEFAULT_ORIGIN", "Ljubljana"),

		ProviderTimeout:      GetDuration("PROVIDER_TIMEOUT", 5*time.Second),
		ProviderMaxAttempts:  GetInt("PROVIDER_MAX_ATTEMPTS", 4),
		ProviderRetryBackoff: GetDuration("PROVIDER_RETRY_BACKOFF", 200*time.Millisecond),

		GeoNamesUser:    Get("GEONAMES_USERNAME", ""),
		ORSKey:          Get("ORS_API_KEY", ""),
		OpenTripMapKeys: GetList("OPENTRIPMAP_API_KEYS"),
		WikidataURL:     Get("WIKIDATA_SPARQL_URL", "https://query.wikidata.org/sparql"),
		OverpassURL:     Get("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		ElasticURL:      Get("ELASTIC_URL", ""),
		ElasticIndex:    Get("ELASTIC_INDEX", "pois"),
		ElasticSniff:    GetBool("ELASTIC_SNIFF", false),

		OpenAIKey:     Get("OPENAI_API_KEY", ""),
		OpenAIModel:   Get("OPENAI_MODEL_NAME", "gpt-4o-mini"),
		OpenAIBaseURL: Get("OPENAI_BASE_URL", ""),

		SigningKey:       Get("API_SIGNING_KEY", ""),
		ClientID:         Get("API_CLIENT_ID", ""),
		ClientSecretHash: Get("API_CLIENT_SECRET_HASH", ""),
		AllowedOrigins:   GetList("CORS_ALLOWED_ORIGINS"),
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

// GetDuration accepts Go durations ("3s") or a plain number of seconds.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// GetList splits a comma separated value, dropping blanks.
func GetList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
