package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/dwellwise/leasing-service/internal/utils"
)

const defaultOracleTimeout = 3 * time.Second

type Config struct {
	AppName               string
	AppPort               string
	DBUrl                 string
	KafkaBrokers          []string
	KafkaTopic            string
	InvoiceServiceURL     string
	MaintenanceServiceURL string
	OracleTimeout         time.Duration
	RSAPublicKey          *rsa.PublicKey
	ComplianceSweepSpec   string
	SeedDemoData          bool

	// UseMemoryStores swaps the pgx repositories and Kafka publisher
	// for in-memory ones. Meant for local development only.
	UseMemoryStores bool
}

// LoadConfig reads the environment (optionally seeded from a .env
// file) and fails fast on anything required but missing.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found; relying on process environment")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}

	useMemory := os.Getenv("USE_MEMORY_STORES") == "true"

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" && !useMemory {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	kafkaTopic := os.Getenv("KAFKA_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "leasing-events"
	}

	invoiceURL := os.Getenv("INVOICE_SERVICE_URL")
	if invoiceURL == "" {
		utils.Logger.Fatal("INVOICE_SERVICE_URL env var is missing")
	}
	maintenanceURL := os.Getenv("MAINTENANCE_SERVICE_URL")
	if maintenanceURL == "" {
		utils.Logger.Fatal("MAINTENANCE_SERVICE_URL env var is missing")
	}

	oracleTimeout := defaultOracleTimeout
	if raw := os.Getenv("ORACLE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			utils.Logger.WithError(err).Fatal("ORACLE_TIMEOUT is not a valid duration")
		}
		oracleTimeout = d
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	sweepSpec := os.Getenv("COMPLIANCE_SWEEP_SPEC")
	if sweepSpec == "" {
		sweepSpec = "0 2 * * *" // 02:00 daily
	}

	return &Config{
		AppName:               "leasing-service",
		AppPort:               appPort,
		DBUrl:                 dbURL,
		KafkaBrokers:          brokers,
		KafkaTopic:            kafkaTopic,
		InvoiceServiceURL:     invoiceURL,
		MaintenanceServiceURL: maintenanceURL,
		OracleTimeout:         oracleTimeout,
		RSAPublicKey:          pubKey,
		ComplianceSweepSpec:   sweepSpec,
		SeedDemoData:          os.Getenv("SEED_DEMO_DATA") == "true",
		UseMemoryStores:       useMemory,
	}
}
