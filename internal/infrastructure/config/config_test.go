package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg := config.Load()

	assert.Equal(t, ":9093", cfg.GRPCAddr())
	assert.Equal(t, ":8093", cfg.HTTPAddr())
	assert.False(t, cfg.DB.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.TLS.Enabled())
	assert.Equal(t, "amortization-service", cfg.ServiceName)
	assert.Equal(t, "bib-gateway", cfg.Auth.Issuer)
	assert.True(t, cfg.Calculation.LevelPaymentTolerance.Equal(decimal.RequireFromString("0.000001")))
	assert.Equal(t, 64, cfg.Calculation.MaxBracketExpansions)
	assert.Equal(t, 200, cfg.Calculation.MaxBisectionIterations)
	assert.Equal(t, 40000, cfg.Calculation.MaxPayments)
	assert.False(t, cfg.Calculation.Strict)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "19093")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CALC_LEVEL_PAYMENT_TOLERANCE", "0.0001")
	t.Setenv("CALC_MAX_PAYMENTS", "500")
	t.Setenv("CALC_STRICT", "true")
	t.Setenv("CALC_MAX_BISECTION_ITERATIONS", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":19093", cfg.GRPCAddr())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.DB.Enabled())
	assert.True(t, cfg.Calculation.LevelPaymentTolerance.Equal(decimal.RequireFromString("0.0001")))
	assert.Equal(t, 500, cfg.Calculation.MaxPayments)
	assert.Equal(t, 200, cfg.Calculation.MaxBisectionIterations)
	assert.True(t, cfg.Calculation.Strict)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "database without password",
			env:     map[string]string{"JWT_SECRET": "s", "DB_HOST": "db"},
			wantErr: "DB_PASSWORD",
		},
		{
			name:    "no jwt key material",
			env:     map[string]string{"JWT_SECRET": "", "JWT_PUBLIC_KEY": "", "JWT_PUBLIC_KEY_FILE": ""},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "tls cert without key",
			env:     map[string]string{"JWT_SECRET": "s", "GRPC_TLS_CERT_FILE": "cert.pem"},
			wantErr: "GRPC_TLS_KEY_FILE",
		},
		{
			name:    "sample ratio out of range",
			env:     map[string]string{"JWT_SECRET": "s", "OTEL_TRACES_SAMPLER_ARG": "1.5"},
			wantErr: "OTEL_TRACES_SAMPLER_ARG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := config.Load().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
