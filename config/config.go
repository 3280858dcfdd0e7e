package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const dbFileName = "feedings.db"

// Config keeps bot configuration taken from the environment.
type Config struct {
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`
	TimeZone string `env:"TIMEZONE" envDefault:"UTC"`
	BaseDir  string `env:"BASE_DIR" envDefault:"/opt/telegram-bot"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed parsing environment")
	}

	return &cfg, nil
}

// DBPath is the location of the SQLite database file under BaseDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.BaseDir, dbFileName)
}
