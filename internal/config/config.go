package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Rephrasing (optional; no key means handler messages are spoken verbatim)
	OpenAIAPIKey    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiModel     string
	RephraseTimeout time.Duration

	// Call sessions
	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Telephony
	CountryCode        string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	DemoCalleeNumber   string
	ValidateSignatures bool

	// Dashboard mirror
	DashboardURL     string
	DashboardChatCap int
}

// Load reads configuration from environment variables
func Load() *Config {
	authToken := getEnv("TWILIO_AUTH_TOKEN", "")
	return &Config{
		Port:          getEnv("PORT", "8000"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		RephraseTimeout: getEnvAsDuration("REPHRASE_TIMEOUT", 4*time.Second),

		SessionStore:  getEnv("SESSION_STORE", "memory"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CountryCode:        getEnv("COUNTRY_CODE", "+91"),
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    authToken,
		TwilioFromNumber:   getEnv("TWILIO_PHONE_NUMBER", ""),
		DemoCalleeNumber:   getEnv("DEMO_CALLEE_NUMBER", ""),
		ValidateSignatures: getEnvAsBool("VALIDATE_TWILIO_SIGNATURES", authToken != ""),

		DashboardURL:     getEnv("DASHBOARD_URL", "http://localhost:8080"),
		DashboardChatCap: getEnvAsInt("DASHBOARD_CHAT_CAP", 500),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
