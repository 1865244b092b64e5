package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fairmeet/engine"
	"fairmeet/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
	envLoaded bool
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment    string      `json:"environment"`
	ServerPort     string      `json:"server_port"`
	DBHost         string      `json:"db_host"`
	DBPort         string      `json:"db_port"`
	DBUser         string      `json:"db_user"`
	DBPassword     string      `json:"-"`
	DBName         string      `json:"db_name"`
	DBSSLMode      string      `json:"db_ssl_mode"`
	DBMaxIdleConns int         `json:"db_max_idle_conns"`
	DBMaxOpenConns int         `json:"db_max_open_conns"`
	SentryDSN      string      `json:"-"`
	Redis          RedisConfig `json:"redis"`

	// Engine tuning. The candidate cap is deliberately exposed so operators
	// can trade latency for scan completeness.
	EngineHorizonDays     int `json:"engine_horizon_days"`
	EngineGranularityMins int `json:"engine_granularity_mins"`
	EngineMaxCandidates   int `json:"engine_max_candidates"`
	EngineMaxSuggestions  int `json:"engine_max_suggestions"`

	RateLimitGenerate int           `json:"rate_limit_generate"`
	RefreshInterval   time.Duration `json:"refresh_interval"`
	SuggestionMaxAge  time.Duration `json:"suggestion_max_age"`
	AllowedOrigins    []string      `json:"allowed_origins"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "fairmeet"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ADDRESS", "") != "",
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},

		EngineHorizonDays:     getEnvAsInt("ENGINE_HORIZON_DAYS", 28),
		EngineGranularityMins: getEnvAsInt("ENGINE_GRANULARITY_MINUTES", 15),
		EngineMaxCandidates:   getEnvAsInt("ENGINE_MAX_CANDIDATES", 1000),
		EngineMaxSuggestions:  getEnvAsInt("ENGINE_MAX_SUGGESTIONS", 5),

		RateLimitGenerate: getEnvAsInt("RATE_LIMIT_GENERATE", 5),
		RefreshInterval:   getEnvAsDuration("REFRESH_INTERVAL", time.Hour),
		SuggestionMaxAge:  getEnvAsDuration("SUGGESTION_MAX_AGE", 24*time.Hour),
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}

	// Validate required configurations
	if AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         AppConfig.SentryDSN,
			Environment: AppConfig.Environment,
		}); err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
	}

	logConfig()
	return nil
}

// EngineConfig maps the environment-exposed engine knobs onto the engine's
// configuration surface.
func EngineConfig() engine.Config {
	return engine.Config{
		HorizonDays:        AppConfig.EngineHorizonDays,
		GranularityMinutes: AppConfig.EngineGranularityMins,
		MaxCandidates:      AppConfig.EngineMaxCandidates,
		MaxSuggestions:     AppConfig.EngineMaxSuggestions,
	}
}

func ConnectDB() error {
	log.Println("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	log.Println("Using connection string:", maskPassword(dsn))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("✅ Successfully connected to the database")
	log.Println("🔄 Starting database migration...")
	if err := models.Migrate(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Println("✅ Database migration completed")
	return nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		log.Printf("⚠️ Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	log.Println("🔧 Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Database: %s@%s:%s/%s",
		AppConfig.DBUser,
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBName)
	log.Printf("Engine: horizon=%dd granularity=%dm cap=%d top=%d",
		AppConfig.EngineHorizonDays,
		AppConfig.EngineGranularityMins,
		AppConfig.EngineMaxCandidates,
		AppConfig.EngineMaxSuggestions)
}
