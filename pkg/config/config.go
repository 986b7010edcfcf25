package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string
	LogLevel    string
	// LogFormat is "json" (default) or "text" for local runs.
	LogFormat string

	ServerPort int

	DatabaseURL string

	// BackendURL and BackendKey are the storefront's view of the backend;
	// the backend itself only checks BackendKey.
	BackendURL string
	BackendKey string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AdminEmails      []string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string

	PaymentURL    string
	PaymentSecret string
	PaymentRate   float64

	DeviceStorageDir string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", ""),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		LogFormat:   EnvDefault("LOG_FORMAT", "json"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		BackendURL: strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		BackendKey: os.Getenv("BACKEND_KEY"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AdminEmails:      CSV(strings.ToLower(os.Getenv("ADMIN_EMAILS"))),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		PaymentURL:    strings.TrimRight(os.Getenv("PAYMENT_URL"), "/"),
		PaymentSecret: os.Getenv("PAYMENT_SECRET"),
		PaymentRate:   EnvFloatDefault("PAYMENT_RATE", 5),

		DeviceStorageDir: EnvDefault("DEVICE_STORAGE_DIR", "var/devices"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
