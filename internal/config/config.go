package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config identifies the managed guild surface and carries every
// tunable. It is built once at startup and passed by reference; there
// is no package-level state.
type Config struct {
	Mode string `mapstructure:"mode"`

	GuildID          string `mapstructure:"guild_id"`
	CategoryID       string `mapstructure:"category_id"`
	EntryChannelID   string `mapstructure:"entry_channel_id"`
	ControlChannelID string `mapstructure:"control_channel_id"`
	AFKChannelID     string `mapstructure:"afk_channel_id"`

	Token string `mapstructure:"token"`

	DBPath       string `mapstructure:"db_path"`
	DenylistPath string `mapstructure:"denylist_path"`

	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	JoinTimeout   time.Duration `mapstructure:"join_timeout"`
	JoinCooldown  time.Duration `mapstructure:"join_cooldown"`
	DeleteAfter   time.Duration `mapstructure:"delete_after"`
	PurgeLimit    int           `mapstructure:"purge_limit"`

	StatusAddr string `mapstructure:"status_addr"`
}

// Load reads config/config.<env>.yaml (env from CONFIG_ENV, default
// "dev"), applies defaults, and pulls the bot token from the TOKEN
// environment variable.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("db_path", "bot.db")
	v.SetDefault("denylist_path", "assets/bad_words.txt")
	v.SetDefault("sweep_interval", "10s")
	v.SetDefault("join_timeout", "120s")
	v.SetDefault("join_cooldown", "120s")
	v.SetDefault("delete_after", "60s")
	v.SetDefault("purge_limit", 30)
	v.SetDefault("status_addr", ":8080")

	v.BindEnv("token", "TOKEN")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", fileName, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first missing required field. The process must
// not start without a token and the full channel topology.
func (c *Config) Validate() error {
	required := []struct{ name, value string }{
		{"token", c.Token},
		{"guild_id", c.GuildID},
		{"category_id", c.CategoryID},
		{"entry_channel_id", c.EntryChannelID},
		{"control_channel_id", c.ControlChannelID},
		{"afk_channel_id", c.AFKChannelID},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("config: %s is required", r.name)
		}
	}
	return nil
}
