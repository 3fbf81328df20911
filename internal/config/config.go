package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Поддерживаемые хранилища инцидентов
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Политики поведения при отказе геоиндекса
const (
	FallbackStrict = "strict"
	FallbackBox    = "fallback"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	StoreBackend    string        `envconfig:"STORE_BACKEND" default:"postgres"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	DBMaxConns      int32         `envconfig:"DB_MAX_CONNS" default:"16"`
	MigrationsPath  string        `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`
	MongoURI        string        `envconfig:"MONGODB_URI"`
	MongoDB         string        `envconfig:"MONGODB_DB" default:"nirbhaya"`
	MongoCollection string        `envconfig:"MONGODB_COLLECTION" default:"crime_incidents_mongo"`
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	// Redis Config
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// Scoring Config
	ScoreDefaultRadiusMeters float64       `envconfig:"SCORE_DEFAULT_RADIUS_METERS" default:"1500"`
	ScoreMaxRadiusMeters     float64       `envconfig:"SCORE_MAX_RADIUS_METERS" default:"2000"`
	ScoreQueryLimit          int           `envconfig:"SCORE_QUERY_LIMIT" default:"5000"`
	ScoreSeverityWeight      float64       `envconfig:"SCORE_SEVERITY_WEIGHT" default:"0.02"`
	ScoreIncidentWeight      float64       `envconfig:"SCORE_INCIDENT_WEIGHT" default:"0.01"`
	ScoreRecentWeight        float64       `envconfig:"SCORE_RECENT_WEIGHT" default:"0.5"`
	ScoreUserReportWeight    float64       `envconfig:"SCORE_USER_REPORT_WEIGHT" default:"1.2"`
	ScoreCacheTTL            time.Duration `envconfig:"SCORE_CACHE_TTL" default:"60s"`

	// Route Config
	RouteSampleStride        int           `envconfig:"ROUTE_SAMPLE_STRIDE" default:"10"`
	RouteSampleRadiusMeters  float64       `envconfig:"ROUTE_SAMPLE_RADIUS_METERS" default:"750"`
	RouteQueryLimit          int           `envconfig:"ROUTE_QUERY_LIMIT" default:"500"`
	RouteSamplingConcurrency int           `envconfig:"ROUTE_SAMPLING_CONCURRENCY" default:"8"`
	RoutePointTimeout        time.Duration `envconfig:"ROUTE_POINT_TIMEOUT" default:"2s"`
	RouteEvaluationDeadline  time.Duration `envconfig:"ROUTE_EVALUATION_DEADLINE" default:"15s"`
	GeoFallbackPolicy        string        `envconfig:"GEO_FALLBACK_POLICY" default:"strict"`
	BoxScanLimit             int           `envconfig:"BOX_SCAN_LIMIT" default:"3000"`
	HeatmapLimit             int           `envconfig:"HEATMAP_LIMIT" default:"8000"`

	// Directions Config
	GoogleMapsAPIKey       string        `envconfig:"GOOGLE_MAPS_API_KEY"`
	DirectionsBaseURL      string        `envconfig:"DIRECTIONS_BASE_URL" default:"https://maps.googleapis.com/maps/api/directions/json"`
	DirectionsMode         string        `envconfig:"DIRECTIONS_MODE" default:"driving"`
	DirectionsRegionSuffix string        `envconfig:"DIRECTIONS_REGION_SUFFIX"`
	DirectionsTimeout      time.Duration `envconfig:"DIRECTIONS_TIMEOUT" default:"10s"`

	// Report ingestion Config
	ReportMaxRetries int           `envconfig:"REPORT_MAX_RETRIES" default:"3"`
	ReportBaseDelay  time.Duration `envconfig:"REPORT_BASE_DELAY" default:"500ms"`

	// API Keys for authentication
	APIKeys []string `envconfig:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	keys := cfg.APIKeys[:0]
	for _, key := range cfg.APIKeys {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	cfg.APIKeys = keys

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL environment variable is required for postgres backend"))
		}
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI environment variable is required for mongo backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.GeoFallbackPolicy != FallbackStrict && c.GeoFallbackPolicy != FallbackBox {
		errs = append(errs, fmt.Errorf("unknown GEO_FALLBACK_POLICY %q", c.GeoFallbackPolicy))
	}
	if c.ScoreDefaultRadiusMeters <= 0 || c.ScoreMaxRadiusMeters <= 0 || c.RouteSampleRadiusMeters <= 0 {
		errs = append(errs, errors.New("radius settings must be positive"))
	}
	if c.ScoreQueryLimit <= 0 || c.RouteQueryLimit <= 0 || c.BoxScanLimit <= 0 || c.HeatmapLimit <= 0 {
		errs = append(errs, errors.New("query limits must be positive"))
	}
	if c.RouteSampleStride <= 0 {
		errs = append(errs, errors.New("ROUTE_SAMPLE_STRIDE must be positive"))
	}
	if c.RouteSamplingConcurrency <= 0 {
		errs = append(errs, errors.New("ROUTE_SAMPLING_CONCURRENCY must be positive"))
	}
	if c.ScoreSeverityWeight < 0 || c.ScoreIncidentWeight < 0 || c.ScoreRecentWeight < 0 || c.ScoreUserReportWeight < 0 {
		errs = append(errs, errors.New("scoring weights must not be negative"))
	}

	return errors.Join(errs...)
}
