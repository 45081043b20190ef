package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定（mainで一度だけ作って各所に渡す）
type Config struct {
	Env  string // development/production
	Port string // サーバーポート（:8080）

	DBDriver    string // sqlite/postgres
	DatabaseURL string // sqliteならファイルパス

	BotToken       string
	BotPollTimeout int // 秒

	LogLevel  string
	LogFormat string // console/json

	CatalogLimit      int
	OrderHistoryLimit int
	SuggestionCount   int
	SeedDemo          bool

	// 空ならレート制限なし
	RedisAddr  string
	RateLimit  int
	RateWindow time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("db_driver", "")
	v.SetDefault("database_url", "data/app.db")
	v.SetDefault("bot_token", "")
	v.SetDefault("bot_poll_timeout", 30)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "")
	v.SetDefault("catalog_limit", 20)
	v.SetDefault("order_history_limit", 5)
	v.SetDefault("ai_suggestion_count", 3)
	v.SetDefault("seed_demo", false)
	v.SetDefault("redis_addr", "")
	v.SetDefault("rate_limit", 20)
	v.SetDefault("rate_window", "1m")
}

// Loadは.env（あれば）と環境変数から読む
func Load() (Config, error) {
	// .envが無いのは正常
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:  strings.ToLower(v.GetString("app_env")),
		Port: normalizePort(v.GetString("port")),

		DatabaseURL: strings.TrimSpace(v.GetString("database_url")),

		BotToken:       strings.TrimSpace(v.GetString("bot_token")),
		BotPollTimeout: v.GetInt("bot_poll_timeout"),

		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),

		CatalogLimit:      v.GetInt("catalog_limit"),
		OrderHistoryLimit: v.GetInt("order_history_limit"),
		SuggestionCount:   v.GetInt("ai_suggestion_count"),
		SeedDemo:          v.GetBool("seed_demo"),

		RedisAddr: strings.TrimSpace(v.GetString("redis_addr")),
		RateLimit: v.GetInt("rate_limit"),
	}

	window, err := time.ParseDuration(v.GetString("rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("RATE_WINDOW must be a duration: %w", err)
	}
	cfg.RateWindow = window

	cfg.DBDriver = inferDriver(strings.ToLower(v.GetString("db_driver")), cfg.DatabaseURL)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

//必須チェック
func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	if c.CatalogLimit < 1 {
		return fmt.Errorf("CATALOG_LIMIT must be >= 1")
	}
	if c.OrderHistoryLimit < 1 || c.OrderHistoryLimit > 50 {
		return fmt.Errorf("ORDER_HISTORY_LIMIT must be between 1 and 50")
	}
	if c.SuggestionCount < 1 {
		return fmt.Errorf("AI_SUGGESTION_COUNT must be >= 1")
	}
	if c.BotPollTimeout < 1 {
		return fmt.Errorf("BOT_POLL_TIMEOUT must be >= 1")
	}
	if c.RedisAddr != "" {
		if c.RateLimit < 1 {
			return fmt.Errorf("RATE_LIMIT must be >= 1")
		}
		if c.RateWindow < time.Second {
			return fmt.Errorf("RATE_WINDOW must be at least 1s")
		}
	}
	return nil
}

// botだけが使う
func (c Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) RateLimitEnabled() bool {
	return c.RedisAddr != ""
}

func inferDriver(driver, url string) string {
	if driver != "" {
		return driver
	}
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func normalizePort(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ":8080"
	}
	if v[0] != ':' {
		return ":" + v
	}
	return v
}
