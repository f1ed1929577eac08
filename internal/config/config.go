package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Server Server
	Logger Logger
	Auth   Auth
	Sales  Sales
	Gemini Gemini
}

type Server struct {
	Port        string
	DatabaseURL string
}

type Logger struct {
	Level string
}

type Auth struct {
	JWTSecret string
}

type Sales struct {
	TaxRate float64
}

type Gemini struct {
	APIKey string
	Model  string
}

// DefaultTaxRate applies when TAX_RATE is unset or malformed.
const DefaultTaxRate = 0.08

// Load reads configuration from environment variables, applying defaults
// for anything unset. Call godotenv.Load before this if a .env file is used.
func Load() *Config {
	return &Config{
		Server: Server{
			Port:        getEnv("APP_PORT", "8080"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Logger: Logger{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: Auth{
			JWTSecret: getEnv("JWT_SECRET", "astra-pos-dev-secret"),
		},
		Sales: Sales{
			TaxRate: getEnvFloat("TAX_RATE", DefaultTaxRate),
		},
		Gemini: Gemini{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}
