package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries environment-provided defaults; flags override them.
type Config struct {
	Manifest     string `env:"COMPONENTS_MANIFEST" envDefault:"components.yaml"`
	TemplatesDir string `env:"COMPONENTS_TEMPLATES_DIR"`
	Behavior     string `env:"COMPONENTS_CONTEXT_BEHAVIOR" envDefault:"django"`
	LogLevel     string `env:"COMPONENTS_LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (Config, error) {
	// A missing .env file is fine; explicit environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("cli: parse environment: %w", err)
	}
	return cfg, nil
}
