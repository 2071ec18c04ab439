package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingRPCURL       = errors.New("BESU_RPC_URL is not set")
	ErrMissingAdminKey     = errors.New("ADMIN_PRIVATE_KEY is not set")
	ErrInvalidContractAddr = errors.New("invalid contract address")
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type Config struct {
	Port                     string
	BesuRPCUrl               string
	AdminPrivateKey          string
	ProfeCoinContractAddress string
	LogroNFTContractAddress  string
	ProfeCoinArtifactPath    string
	LogroNFTArtifactPath     string
	CorsAllowedOrigins       []string
	SubmitTimeout            time.Duration
	ConfirmationTimeout      time.Duration
	CallTimeout              time.Duration
	SubmitQueueSize          int
	LogLevel                 string
	LogPretty                bool
	DbDriverName             string
	DbHost                   string
	DbPort                   string
	DbUser                   string
	DbPassword               string
	DbName                   string
	DbSSLMode                string
}

// NewConfig returns a new Config struct read from the environment
func NewConfig() *Config {
	return &Config{
		Port:                     getEnv("PORT", "8080"),
		BesuRPCUrl:               getEnv("BESU_RPC_URL", ""),
		AdminPrivateKey:          getEnv("ADMIN_PRIVATE_KEY", ""),
		ProfeCoinContractAddress: getEnv("PROFECOIN_CONTRACT_ADDRESS", ""),
		LogroNFTContractAddress:  getEnv("LOGRONFT_CONTRACT_ADDRESS", ""),
		ProfeCoinArtifactPath:    getEnv("PROFECOIN_ARTIFACT_PATH", ""),
		LogroNFTArtifactPath:     getEnv("LOGRONFT_ARTIFACT_PATH", ""),
		CorsAllowedOrigins:       getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3001"}, ","),
		SubmitTimeout:            getEnvAsDuration("SUBMIT_TIMEOUT", time.Second*30),
		ConfirmationTimeout:      getEnvAsDuration("CONFIRMATION_TIMEOUT", time.Minute*2),
		CallTimeout:              getEnvAsDuration("CALL_TIMEOUT", time.Second*30),
		SubmitQueueSize:          getEnvAsInt("SUBMIT_QUEUE_SIZE", 64),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogPretty:                getEnvAsBool("LOG_PRETTY", false),
		DbDriverName:             getEnv("DB_DRIVER_NAME", ""),
		DbHost:                   getEnv("DB_HOST", ""),
		DbPort:                   getEnv("DB_PORT", "5432"),
		DbUser:                   getEnv("DB_USER", ""),
		DbPassword:               getEnv("DB_PASSWORD", ""),
		DbName:                   getEnv("DB_NAME", ""),
		DbSSLMode:                getEnv("DB_SSL_MODE", "disable"),
	}
}

// Validate checks the settings the API cannot start without.
func (c *Config) Validate() error {
	if c.BesuRPCUrl == "" {
		return ErrMissingRPCURL
	}
	if c.AdminPrivateKey == "" {
		return ErrMissingAdminKey
	}
	if !addressPattern.MatchString(c.ProfeCoinContractAddress) {
		return fmt.Errorf("PROFECOIN_CONTRACT_ADDRESS %q: %w", c.ProfeCoinContractAddress, ErrInvalidContractAddr)
	}
	if !addressPattern.MatchString(c.LogroNFTContractAddress) {
		return fmt.Errorf("LOGRONFT_CONTRACT_ADDRESS %q: %w", c.LogroNFTContractAddress, ErrInvalidContractAddr)
	}
	return nil
}

// ServerWriteTimeout is the http.Server write deadline. Writes hold the
// response through the queue wait, the submission and the confirmation, so
// it is zero (no deadline) when either of those is unbounded.
func (c *Config) ServerWriteTimeout() time.Duration {
	if c.SubmitTimeout <= 0 || c.ConfirmationTimeout <= 0 {
		return 0
	}
	return c.SubmitTimeout + c.ConfirmationTimeout + 30*time.Second
}

// JournalEnabled reports whether a database was configured for the write journal.
func (c *Config) JournalEnabled() bool {
	return c.DbDriverName != ""
}

// Simple helper function to read an environment or return a default value
func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

// Simple helper function to read an environment variable into integer or return a default value
func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
		return value
	}

	return defaultVal
}

// Helper to read an environment variable into a bool or return default value
func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

// Helper to read an environment variable into a string slice or return default value
func getEnvAsSlice(name string, defaultVal []string, sep string) []string {
	valStr := getEnv(name, "")

	if valStr == "" {
		return defaultVal
	}

	var val []string
	for _, part := range strings.Split(valStr, sep) {
		if part = strings.TrimSpace(part); part != "" {
			val = append(val, part)
		}
	}

	return val
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	if duration, err := time.ParseDuration(valStr); err == nil {
		return duration
	}
	return defaultVal
}
