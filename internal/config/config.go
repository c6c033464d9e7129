package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Banking  BankingConfig
	AI       AIConfig
	Notifier NotifierConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdleConns   int
}

type BankingConfig struct {
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

type AIConfig struct {
	Primary  ProviderConfig
	Fallback ProviderConfig
	Timeout  time.Duration
}

type ProviderConfig struct {
	Kind    string
	BaseURL string
	APIKey  string
	Model   string
}

type NotifierConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type EngineConfig struct {
	MaxConcurrentTasks   int
	HealthInterval       time.Duration
	SyncInterval         time.Duration
	WeeklyPollInterval   time.Duration
	BriefingHour         int
	LoopBackoff          time.Duration
	RepresentativePolicy string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("FINBOT")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.maxidleconns", 5)
	viper.SetDefault("banking.requestspersecond", 4)
	viper.SetDefault("banking.burst", 8)
	viper.SetDefault("banking.timeout", "15s")
	viper.SetDefault("ai.primary.kind", "openai")
	viper.SetDefault("ai.primary.model", "gpt-4o-mini")
	viper.SetDefault("ai.fallback.kind", "ollama")
	viper.SetDefault("ai.fallback.baseurl", "http://localhost:11434")
	viper.SetDefault("ai.fallback.model", "llama3")
	viper.SetDefault("ai.timeout", "60s")
	viper.SetDefault("notifier.baseurl", "https://api.telegram.org")
	viper.SetDefault("notifier.timeout", "10s")
	viper.SetDefault("engine.maxconcurrenttasks", 5)
	viper.SetDefault("engine.healthinterval", "15m")
	viper.SetDefault("engine.syncinterval", "30m")
	viper.SetDefault("engine.weeklypollinterval", "5m")
	viper.SetDefault("engine.briefinghour", 8)
	viper.SetDefault("engine.loopbackoff", "1m")
	viper.SetDefault("engine.representativepolicy", "admin_first")

	var cfg Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if url := os.Getenv("BANKING_BASE_URL"); url != "" {
		cfg.Banking.BaseURL = url
	}
	if key := os.Getenv("AI_PRIMARY_API_KEY"); key != "" {
		cfg.AI.Primary.APIKey = key
	}
	if token := os.Getenv("NOTIFIER_TOKEN"); token != "" {
		cfg.Notifier.Token = token
	}

	return &cfg, nil
}
