package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultGroqModel is the upstream default. It has been decommissioned;
	// boot warns when it is still in use so the first model_decommissioned
	// error is no surprise.
	DefaultGroqModel   = "llama-3.1-70b-versatile"
	DefaultGeminiModel = "gemini-2.5-flash"

	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type Config struct {
	Provider         string
	GroqAPIKey       string
	GroqModel        string
	GeminiAPIKey     string
	GeminiModel      string
	MaxMessageLength int
	TimeoutSeconds   int
	Addr             string
}

// Load reads configuration from the environment. Every option has a default
// except the API keys.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("LLM_PROVIDER", ProviderGroq)
	v.SetDefault("GROQ_MODEL", DefaultGroqModel)
	v.SetDefault("GEMINI_MODEL", DefaultGeminiModel)
	v.SetDefault("MAX_MESSAGE_LENGTH", 2000)
	v.SetDefault("MODEL_TIMEOUT", 8)
	v.SetDefault("ADDR", ":8000")

	return &Config{
		Provider:         v.GetString("LLM_PROVIDER"),
		GroqAPIKey:       v.GetString("GROQ_API_KEY"),
		GroqModel:        v.GetString("GROQ_MODEL"),
		GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		MaxMessageLength: v.GetInt("MAX_MESSAGE_LENGTH"),
		TimeoutSeconds:   v.GetInt("MODEL_TIMEOUT"),
		Addr:             v.GetString("ADDR"),
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) UsingDecommissionedDefault() bool {
	return c.Provider == ProviderGroq && c.GroqModel == DefaultGroqModel
}
