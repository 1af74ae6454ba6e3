package config

import (
	"os"
	"strconv"
	"strings"
)

// Server captures process-level configuration. Everything comes from the
// environment so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string

	// Genesis state. Owner receives the initial supply and every role.
	OwnerAddress  string
	TokenName     string
	TokenSymbol   string
	TokenDecimals uint8
	InitialSupply uint64

	// Optional backing services; empty means in-memory / disabled.
	PostgresDSN  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:          getenv("TOKENGUARD_ADDR", ":8080"),
		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		OwnerAddress:  getenv("TOKENGUARD_OWNER", "0x0000000000000000000000000000000000000001"),
		TokenName:     getenv("TOKEN_NAME", "Guarded Token"),
		TokenSymbol:   getenv("TOKEN_SYMBOL", "GRD"),
		TokenDecimals: uint8(getuint("TOKEN_DECIMALS", 18)),
		InitialSupply: getuint("TOKEN_INITIAL_SUPPLY", 1_000_000_000),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaTopic:    getenv("KAFKA_NOTIFY_TOPIC", "tokenguard.notifications"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getuint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
