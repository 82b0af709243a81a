package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
)

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

// Enabled reports whether a benchmark rate store is configured.
func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

type KafkaConfig struct {
	Brokers []string
	Topic   string
	TLS     bool
}

// Enabled reports whether events are published to a broker.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	OTLPInsecure bool
	SampleRatio  float64
}

type AuthConfig struct {
	Secret        string
	PublicKey     string
	PublicKeyFile string
	Issuer        string
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

// Enabled reports whether the gRPC listener serves TLS.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type Config struct {
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Log            LogConfig
	Telemetry      TelemetryConfig
	Auth           AuthConfig
	TLS            TLSConfig
	Calculation    service.CalculationConfig
	ServiceName    string
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Enabled() && c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required when DB_HOST is set"))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKey == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be within [0, 1], got %v", c.Telemetry.SampleRatio))
	}
	if c.Calculation.MaxPayments < 0 || c.Calculation.MaxBisectionIterations < 0 || c.Calculation.MaxBracketExpansions < 0 {
		errs = append(errs, errors.New("CALC_* limits must not be negative"))
	}
	return errors.Join(errs...)
}

func Load() Config {
	defaults := service.DefaultCalculationConfig()
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9093),
		HTTPPort:       getEnvInt("HTTP_PORT", 8093),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		DB: DatabaseConfig{
			Host:           getEnv("DB_HOST", ""),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "bib"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "bib_amortization"),
			SSLMode:        getEnv("DB_SSLMODE", "require"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "file://migrations"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "bib.amortization.events"),
			TLS:     getEnvBool("KAFKA_TLS", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio:  getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		},
		Auth: AuthConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "bib-gateway"),
		},
		TLS: TLSConfig{
			CertFile:     getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:      getEnv("GRPC_TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("GRPC_TLS_CLIENT_CA_FILE", ""),
		},
		Calculation: service.CalculationConfig{
			LevelPaymentTolerance:  getEnvDecimal("CALC_LEVEL_PAYMENT_TOLERANCE", defaults.LevelPaymentTolerance),
			MaxBracketExpansions:   getEnvInt("CALC_MAX_BRACKET_EXPANSIONS", defaults.MaxBracketExpansions),
			MaxBisectionIterations: getEnvInt("CALC_MAX_BISECTION_ITERATIONS", defaults.MaxBisectionIterations),
			MaxPayments:            getEnvInt("CALC_MAX_PAYMENTS", defaults.MaxPayments),
			FinalPaymentTolerance:  getEnvDecimal("CALC_FINAL_PAYMENT_TOLERANCE", defaults.FinalPaymentTolerance),
			Strict:                 getEnvBool("CALC_STRICT", false),
		},
		ServiceName: "amortization-service",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
