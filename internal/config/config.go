// Package config carga la configuración del servicio desde .env y variables
// de entorno, con defaults para correr en local sin nada configurado.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DefaultPort               = "8080"
	DefaultMaxAttachmentBytes = 5 << 20
	DefaultAMQPExchange       = "vetadmin.topic"
)

type Config struct {
	Port string

	// Vacío => storage in-memory.
	DatabaseURL   string
	DBAutoMigrate bool

	ClinicTimezone     string
	MaxAttachmentBytes int
	SeedCatalog        bool

	// Vacío => modo dev (X-Debug-User-ID).
	AuthBaseURL string
	AuthAPIKey  string

	// Vacío => notificaciones deshabilitadas.
	AMQPURL      string
	AMQPExchange string

	TraceStdout bool

	LogLevel  string
	LogFormat string
	AppName   string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	maxAttachment := getEnvInt("MAX_ATTACHMENT_BYTES", DefaultMaxAttachmentBytes)
	if maxAttachment <= 0 {
		maxAttachment = DefaultMaxAttachmentBytes
	}

	return &Config{
		Port:               getEnv("PORT", DefaultPort),
		DatabaseURL:        strings.TrimSpace(getEnv("DATABASE_URL", "")),
		DBAutoMigrate:      getEnvBool("DB_AUTO_MIGRATE", true),
		ClinicTimezone:     getEnv("CLINIC_TIMEZONE", "UTC"),
		MaxAttachmentBytes: maxAttachment,
		SeedCatalog:        getEnvBool("SEED_CATALOG", true),
		AuthBaseURL:        strings.TrimSpace(getEnv("AUTH_BASE_URL", "")),
		AuthAPIKey:         getEnv("AUTH_API_KEY", ""),
		AMQPURL:            strings.TrimSpace(getEnv("AMQP_URL", "")),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", DefaultAMQPExchange),
		TraceStdout:        getEnvBool("TRACE_STDOUT", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		AppName:            getEnv("APP_NAME", "vetadmin"),
		ShutdownTimeout:    time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
	}
}

// Location resuelve CLINIC_TIMEZONE; un nombre inválido cae a UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.ClinicTimezone))
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}
