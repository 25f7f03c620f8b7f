package cli

import (
	"os"

	"github.com/gameportal/portal-go/internal/credstore"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string
	Verbose     bool
	AssumeYes   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("PORTAL_SERVER", "http://localhost:5000/api"),
		SessionFile: getEnvOrDefault("PORTAL_SESSION_FILE", credstore.DefaultPath()),
		Output:      "text",
		Verbose:     false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
