package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	DBDriver       string // "sqlite" or "postgres"
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	SQLitePath     string
	RedisAddr      string // empty disables the extraction cache
	RedisDB        int
	CacheTTL       time.Duration
	UploadDir      string
	MaxUploadMB    int64
	AllowedOrigins []string
	DefaultPolicy  string
	SeatPrefix     string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Fatalf("config.godotenv(.env): %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(.env): %v", err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "resultboard")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "resultboard.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 24*time.Hour)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", int64(100))
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_POLICY", "sgpa")
	v.SetDefault("SEAT_PREFIX", "B1903103")
	v.AutomaticEnv()

	return &Config{
		Port:           v.GetString("PORT"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:         v.GetString("DB_HOST"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBPort:         v.GetString("DB_PORT"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisDB:        v.GetInt("REDIS_DB"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxUploadMB:    v.GetInt64("MAX_UPLOAD_MB"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		DefaultPolicy:  v.GetString("DEFAULT_POLICY"),
		SeatPrefix:     v.GetString("SEAT_PREFIX"),
	}
}

// PostgresDSN builds the DSN from the DB_* settings.
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
