package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort         string   `env:"HTTP_PORT" envDefault:"8080"`
	OpenAIAPIKey     string   `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string   `env:"OPENAI_BASE_URL"`
	OpenAIModel      string   `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	OpenAIMaxTokens  int      `env:"OPENAI_MAX_TOKENS" envDefault:"16000"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	PromptsPath      string   `env:"PROMPTS_PATH" envDefault:"prompts.yml"`

	// Redis es opcional; sin REDIS_ADDR el rate limiting queda deshabilitado.
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitWindowSeconds int    `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	RateLimitMax           int    `env:"RATE_LIMIT_MAX" envDefault:"20"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
