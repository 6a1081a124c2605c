package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/models"
)

// Defaults used when the matching environment variable is unset or invalid
const (
	DefaultPort               = "8080"
	DefaultSessionIdleTimeout = 30 * time.Minute
	DefaultTemplateCacheSize  = 256
)

// Config holds the project config values
type Config struct {
	Url                string
	DatabaseName       string
	BaseUrl            string
	Port               string
	Env                string
	SessionIdleTimeout time.Duration
	TemplateCacheSize  int
}

// New sets up all config related services
func New() *Config {
	// a missing .env file is fine, the environment wins anyway
	_ = godotenv.Load()

	env := strings.TrimSpace(os.Getenv("APP_ENV"))

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		Url:                os.Getenv("DB_URI"),
		DatabaseName:       os.Getenv("DB_NAME"),
		BaseUrl:            os.Getenv("BASE_URL"),
		Port:               firstNonEmpty(os.Getenv("PORT"), DefaultPort),
		Env:                env,
		SessionIdleTimeout: durationEnv("SESSION_IDLE_TIMEOUT", DefaultSessionIdleTimeout),
		TemplateCacheSize:  intEnv("TEMPLATE_CACHE_SIZE", DefaultTemplateCacheSize),
	}
}

// setLogger picks the zap flavour for the environment
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "local":
		return zap.NewExample(), nil
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		zap.S().Warnw("ignoring invalid duration", "key", key, "value", raw)
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		zap.S().Warnw("ignoring invalid integer", "key", key, "value", raw)
		return fallback
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	zap.S().Errorw(message, "status", httpStatusCode, "error", detail)

	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{
			Message: message,
			Error:   detail,
		},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_, _ = w.Write(b)
}
