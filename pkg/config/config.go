package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Clan          ClanConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	WOM           WOMConfig
	Gemini        GeminiConfig
	Notifications NotificationsConfig
	Reminders     RemindersConfig
	Dashboard     DashboardConfig
	StatsRefresh  StatsRefreshConfig
	Seed          SeedConfig
}

// ClanConfig identifies the clan and the simulated signed-in member.
type ClanConfig struct {
	Name        string
	CurrentUser string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WOMConfig points the guild-statistics gateway at a Wise Old Man group.
type WOMConfig struct {
	BaseURL  string
	GroupID  int
	CacheTTL time.Duration
}

// GeminiConfig configures the generative-AI lookup gateway.
type GeminiConfig struct {
	APIKey   string
	Model    string
	CacheTTL time.Duration
}

// NotificationsConfig controls the reminder notification surface.
type NotificationsConfig struct {
	WebhookURL string
	Title      string
	IconURL    string
}

// RemindersConfig tunes the reminder dispatch queue.
type RemindersConfig struct {
	WorkerConcurrency int
	QueueBuffer       int
}

// DashboardConfig governs dashboard composition and cache tuning.
type DashboardConfig struct {
	CacheTTL          time.Duration
	UpcomingEventsMax int
	RecentDropsMax    int
	RecentFeedMax     int
}

// StatsRefreshConfig schedules the periodic guild-stats cache warmer.
type StatsRefreshConfig struct {
	Enabled  bool
	Schedule string
}

// SeedConfig toggles the built-in demo events and drops.
type SeedConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Clan = ClanConfig{
		Name:        v.GetString("CLAN_NAME"),
		CurrentUser: v.GetString("CLAN_CURRENT_USER"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.WOM = WOMConfig{
		BaseURL:  v.GetString("WOM_BASE_URL"),
		GroupID:  v.GetInt("WOM_GROUP_ID"),
		CacheTTL: parseDuration(v.GetString("WOM_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:   v.GetString("GEMINI_API_KEY"),
		Model:    v.GetString("GEMINI_MODEL"),
		CacheTTL: parseDuration(v.GetString("GEMINI_CACHE_TTL"), 30*time.Minute),
	}

	cfg.Notifications = NotificationsConfig{
		WebhookURL: v.GetString("NOTIFY_WEBHOOK_URL"),
		Title:      v.GetString("NOTIFY_TITLE"),
		IconURL:    v.GetString("NOTIFY_ICON_URL"),
	}

	cfg.Reminders = RemindersConfig{
		WorkerConcurrency: v.GetInt("REMINDER_WORKER_CONCURRENCY"),
		QueueBuffer:       v.GetInt("REMINDER_QUEUE_BUFFER"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL:          parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), time.Minute),
		UpcomingEventsMax: v.GetInt("DASHBOARD_UPCOMING_EVENTS_MAX"),
		RecentDropsMax:    v.GetInt("DASHBOARD_RECENT_DROPS_MAX"),
		RecentFeedMax:     v.GetInt("DASHBOARD_RECENT_FEED_MAX"),
	}

	cfg.StatsRefresh = StatsRefreshConfig{
		Enabled:  v.GetBool("ENABLE_STATS_REFRESH"),
		Schedule: v.GetString("STATS_REFRESH_SCHEDULE"),
	}

	cfg.Seed = SeedConfig{Enabled: v.GetBool("ENABLE_SEED_DATA")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("CLAN_NAME", "Datz Grazy")
	v.SetDefault("CLAN_CURRENT_USER", "RuneScaper99")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WOM_BASE_URL", "https://api.wiseoldman.net/v2")
	v.SetDefault("WOM_GROUP_ID", 11353)
	v.SetDefault("WOM_CACHE_TTL", "5m")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_CACHE_TTL", "30m")

	v.SetDefault("NOTIFY_WEBHOOK_URL", "")
	v.SetDefault("NOTIFY_TITLE", "OSRS Clan Event Reminder")
	v.SetDefault("NOTIFY_ICON_URL", "https://oldschool.runescape.wiki/images/Fire_cape_detail.png")

	v.SetDefault("REMINDER_WORKER_CONCURRENCY", 1)
	v.SetDefault("REMINDER_QUEUE_BUFFER", 16)

	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")
	v.SetDefault("DASHBOARD_UPCOMING_EVENTS_MAX", 3)
	v.SetDefault("DASHBOARD_RECENT_DROPS_MAX", 4)
	v.SetDefault("DASHBOARD_RECENT_FEED_MAX", 10)

	v.SetDefault("ENABLE_STATS_REFRESH", false)
	v.SetDefault("STATS_REFRESH_SCHEDULE", "@every 10m")

	v.SetDefault("ENABLE_SEED_DATA", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
