package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           int
	LogLevel       string
	GoogleAPIKey   string
	GeminiModel    string
	TraceDir       string
	TraceFile      string
	CategoriesFile string
	NatsURL        string
	NatsToken      string

	// OTLP export; empty endpoint disables it.
	OTelEndpoint         string
	OTelServiceName      string
	OTelMetricIntervalMS int
}

func Load() Config {
	return Config{
		Port:           envInt("PORT", 5001),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		GoogleAPIKey:   envStr("GOOGLE_API_KEY", ""),
		GeminiModel:    envStr("GEMINI_MODEL", "gemini-2.0-flash"),
		TraceDir:       envStr("TRACE_DIR", "."),
		TraceFile:      envStr("TRACE_FILE", ""),
		CategoriesFile: envStr("CATEGORIES_FILE", ""),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),

		OTelEndpoint:         envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelServiceName:      envStr("OTEL_SERVICE_NAME", "trace-explorer"),
		OTelMetricIntervalMS: envInt("OTEL_METRIC_INTERVAL_MS", 15000),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
