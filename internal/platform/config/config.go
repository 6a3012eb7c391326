package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv              string `env:"APP_ENV" envDefault:"local"`
	DryRun              bool   `env:"DRY_RUN" envDefault:"false"`
	HealthPort          int    `env:"HEALTH_PORT" envDefault:"8080"`
	QueriesFile         string `env:"QUERIES_FILE" envDefault:"config/queries.yaml"`
	PromptTemplatesFile string `env:"PROMPT_TEMPLATES_FILE" envDefault:"config/prompt_templates.yaml"`
	OutputDir           string `env:"OUTPUT_DIR" envDefault:"output"`
	MirrorDir           string `env:"MIRROR_DIR"`

	Database DatabaseConfig
	YouTube  YouTubeConfig
	LLM      LLMConfig
	Publish  PublishConfig
	Schedule ScheduleConfig
	Scoring  ScoringConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
