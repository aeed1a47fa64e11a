package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("LARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without LARK_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "LARK_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "LARK_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "LARK_REDIS_URL")
	viper.BindEnv("queue.url", "QUEUE_URL", "LARK_QUEUE_URL")
	viper.BindEnv("queue.driver", "QUEUE_DRIVER", "LARK_QUEUE_DRIVER")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "LARK_JWT_SECRET")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY", "LARK_OPENAI_API_KEY")
	viper.BindEnv("groq.api_key", "GROQ_API_KEY", "LARK_GROQ_API_KEY")
	viper.BindEnv("huggingface.api_key", "HUGGINGFACE_API_KEY", "LARK_HUGGINGFACE_API_KEY")
	viper.BindEnv("livekit.api_key", "LIVEKIT_API_KEY")
	viper.BindEnv("livekit.api_secret", "LIVEKIT_API_SECRET")
	viper.BindEnv("vault.address", "VAULT_ADDR")
	viper.BindEnv("vault.token", "VAULT_TOKEN")
	viper.BindEnv("app.environment", "LARK_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "lark-server")
	viper.SetDefault("app.version", "dev")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("queue.driver", "nats")
	viper.SetDefault("voice.voice", "ash")
	viper.SetDefault("voice.speed", 1.0)
	viper.SetDefault("voice.volume", 1.0)
	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("database.seed_statutes", true)
}
