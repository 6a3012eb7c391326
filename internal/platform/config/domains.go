package config

import "time"

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	PostgresDSN       string        `env:"POSTGRES_DSN,required"`
	MaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	MinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"1"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// YouTubeConfig holds video source settings.
type YouTubeConfig struct {
	APIKey            string        `env:"YOUTUBE_API_KEY"`
	BaseURL           string        `env:"YOUTUBE_BASE_URL" envDefault:"https://www.googleapis.com"`
	RequestsPerMinute int           `env:"YOUTUBE_RPM" envDefault:"120"`
	Timeout           time.Duration `env:"YOUTUBE_TIMEOUT" envDefault:"30s"`
	RegionCode        string        `env:"REGION_CODE" envDefault:"US"`
}

// LLMConfig holds text generation settings. BaseURL points at any
// OpenAI-compatible endpoint, e.g. a local Ollama server.
type LLMConfig struct {
	BaseURL     string        `env:"LLM_BASE_URL" envDefault:"http://host.docker.internal:11434/v1"`
	APIKey      string        `env:"LLM_API_KEY" envDefault:"ollama"`
	Model       string        `env:"LLM_MODEL" envDefault:"llama3.1:8b"`
	Temperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.8"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
}

// PublishConfig holds downstream notification and spreadsheet settings.
// Empty credentials disable the corresponding target.
type PublishConfig struct {
	TelegramBotToken      string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID        int64  `env:"TELEGRAM_CHAT_ID"`
	DiscordWebhookURL     string `env:"DISCORD_WEBHOOK_URL"`
	SheetsSpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	SheetsOAuthClientJSON string `env:"SHEETS_OAUTH_CLIENT_JSON" envDefault:"/run/secrets/google_oauth_client.json"`
	SheetsOAuthTokenJSON  string `env:"SHEETS_OAUTH_TOKEN_JSON" envDefault:"/run/secrets/google_token.json"`
}

// ScheduleConfig controls the daily run in serve mode.
type ScheduleConfig struct {
	Timezone     string        `env:"SCHEDULE_TIMEZONE" envDefault:"America/New_York"`
	Time         string        `env:"SCHEDULE_TIME" envDefault:"09:00"`
	TickInterval time.Duration `env:"SCHEDULER_TICK_INTERVAL" envDefault:"10m"`
}

// ScoringConfig overrides the trend score weights.
type ScoringConfig struct {
	LikeWeight    float64 `env:"SCORE_LIKE_WEIGHT" envDefault:"2.0"`
	CommentWeight float64 `env:"SCORE_COMMENT_WEIGHT" envDefault:"3.0"`
	MinAgeHours   float64 `env:"SCORE_MIN_AGE_HOURS" envDefault:"1.0"`
}
