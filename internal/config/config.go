package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Backup   Backup   `mapstructure:",squash"`
}

type App struct {
	Name     string `mapstructure:"app_name"`
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"store_timezone"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

type Database struct {
	Driver     string `mapstructure:"db_driver"`
	URL        string `mapstructure:"database_url"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Auth struct {
	Secret     string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type Backup struct {
	Enabled      bool   `mapstructure:"backup_enabled"`
	CronSchedule string `mapstructure:"backup_cron"`
	Dir          string `mapstructure:"backup_dir"`
	Retention    int    `mapstructure:"backup_retention"`
}

func SetDefaults() {
	viper.SetDefault("APP_NAME", "Boutique POS v1.0")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORE_TIMEZONE", "America/Bogota")

	viper.SetDefault("PORT", "3000")

	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SQLITE_PATH", "boutique.db")

	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("SESSION_TTL", "12h")

	viper.SetDefault("BACKUP_ENABLED", false)
	viper.SetDefault("BACKUP_CRON", "0 2 * * *") // every day at 02:00
	viper.SetDefault("BACKUP_DIR", "backups")
	viper.SetDefault("BACKUP_RETENTION", 7)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("viper could not read .env, relying on process environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Backup.Retention < 1 {
		config.Backup.Retention = 1
	}

	return config, nil
}

// Location resolves the store time zone, falling back to the host zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("unknown STORE_TIMEZONE %q, using local time", c.App.Timezone)
		return time.Local
	}
	return loc
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not resolve working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from ", location)
			return
		}
	}

	logrus.Info("no .env file found, using environment variables")
}
