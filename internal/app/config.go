package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds everything the pipeline needs, loaded once at startup.
// Components receive this value instead of reading the environment themselves.
type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	SlackWebhookURL string
	SlackEnabled    bool
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	DBPath          string
	RunInterval     time.Duration // zero means run once and exit
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig reads all pipeline configuration from the environment.
// Missing required variables are fatal; everything else falls back to the
// defaults the deployment has always used.
func LoadConfig() Config {
	cfg := Config{
		GeminiAPIKey:    GetRequiredEnv("GOOGLE_GEMINI_API_KEY"),
		GeminiModel:     GetEnvWithDefault("GEMINI_MODEL", "gemini-2.5-pro"),
		SlackWebhookURL: GetRequiredEnv("SLACK_WEBHOOK_URL"),
		SlackEnabled:    GetEnvWithDefault("SLACK_ENABLED", "true") == "true",
		SpreadsheetID:   GetRequiredEnv("SPREADSHEET_ID"),
		SheetName:       GetEnvWithDefault("SHEET_NAME", "Form Responses 1"),
		CredentialsFile: GetEnvWithDefault("SERVICE_ACCOUNT_FILE", "service_account.json"),
		DBPath:          GetEnvWithDefault("DB_FILE", "opportunities.db"),
	}

	if raw := os.Getenv("RUN_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Err(err).Str("value", raw).Msg("Invalid RUN_INTERVAL")
		}
		cfg.RunInterval = interval
	}

	log.Debug().
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Str("sheet_name", cfg.SheetName).
		Str("db_path", cfg.DBPath).
		Str("model", cfg.GeminiModel).
		Bool("slack_enabled", cfg.SlackEnabled).
		Dur("run_interval", cfg.RunInterval).
		Msg("Loaded configuration")

	return cfg
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
