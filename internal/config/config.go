package config

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Bot BotConfig
	DB  DBConfig
	Log LogConfig
}

type BotConfig struct {
	Token            string  `env:"BOT_TOKEN,required"`
	ModerationChatID int64   `env:"ADMIN_GROUP_ID,required"`
	AdminIDs         []int64 `env:"ADMIN_IDS"`
	InviteLink       string  `env:"INVITE_LINK"`
	ExportDir        string  `env:"EXPORT_DIR,default=exports"`
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER,default=sqlite3"`
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST,default=localhost"`
	Port     string `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL,default=info"`
	Output     string `env:"LOG_OUTPUT,default=stdout"`
	Path       string `env:"LOG_PATH,default=./logs"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB,default=100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS,default=10"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS,default=7"`
}

// Load reads the full bot configuration: .env first, then process env.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := envconfig.Process(context.Background(), &cfg.Bot); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("config.Load: BOT_TOKEN is required")
	}

	if cfg.Bot.ModerationChatID == 0 {
		return nil, fmt.Errorf("config.Load: ADMIN_GROUP_ID must be non-zero")
	}

	db, err := LoadDB()
	if err != nil {
		return nil, err
	}
	cfg.DB = *db

	logCfg, err := LoadLog()
	if err != nil {
		return nil, err
	}
	cfg.Log = *logCfg

	return cfg, nil
}

// LoadDB reads only the database settings. The export tool needs no bot token.
func LoadDB() (*DBConfig, error) {
	loadDotEnv()

	cfg := &DBConfig{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config.LoadDB: %w", err)
	}

	switch cfg.Driver {
	case "sqlite3":
		if cfg.DSN == "" {
			cfg.DSN = "file:forms.db?_foreign_keys=on"
		}
	case "postgres":
		if cfg.DSN == "" {
			if cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
				return nil, fmt.Errorf("config.LoadDB: DB_USER, DB_PASSWORD, DB_NAME are required for postgres")
			}

			cfg.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		}
	default:
		return nil, fmt.Errorf("config.LoadDB: unsupported DB_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}

func LoadLog() (*LogConfig, error) {
	loadDotEnv()

	cfg := &LogConfig{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config.LoadLog: %w", err)
	}

	return cfg, nil
}

var dotEnvOnce sync.Once

func loadDotEnv() {
	dotEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("config: no .env file found - using env variables")
		}
	})
}

// IsAdmin reports whether userID is on the static admin allow-list.
func (c BotConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}

	return false
}
