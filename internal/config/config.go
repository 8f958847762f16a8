package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionSecret is the development signing key.
const DefaultSessionSecret = "change-me"

var ErrDefaultSecret = errors.New("SESSION_SECRET must be changed when COOKIE_SECURE is on")

type Config struct {
	Port         string
	DBDriver     string // sqlite | pgx
	DBDSN        string
	TemplatesDir string
	StaticDir    string
	LogFile      string
	SeedDemo     bool
	CookieSecure bool

	AdminEmail    string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration

	StorageDisk string // local | s3
	MediaDir    string
	MediaURL    string
	S3Bucket    string
	S3Region    string
	S3Key       string
	S3Secret    string
	S3Endpoint  string
	S3URL       string

	RedisAddr      string
	WhatsAppNumber string
	// MetricsToken guards /metrics; empty leaves the endpoint unmounted.
	MetricsToken string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "perfumeria.db") // sqlite file in project root
	v.SetDefault("TEMPLATES_DIR", "./web/templates")
	v.SetDefault("STATIC_DIR", "./web/static")
	v.SetDefault("LOG_FILE", "./perfumeria.log")
	v.SetDefault("SEED_DEMO", true)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("ADMIN_EMAIL", "administrador@perfumes.com")
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("STORAGE_DISK", "local")
	v.SetDefault("MEDIA_DIR", "./web/media")
	v.SetDefault("MEDIA_URL", "/media")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("WHATSAPP_NUMBER", "593978984433")
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Port:           v.GetString("PORT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DBDSN:          v.GetString("DB_DSN"),
		TemplatesDir:   v.GetString("TEMPLATES_DIR"),
		StaticDir:      v.GetString("STATIC_DIR"),
		LogFile:        v.GetString("LOG_FILE"),
		SeedDemo:       v.GetBool("SEED_DEMO"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		StorageDisk:    v.GetString("STORAGE_DISK"),
		MediaDir:       v.GetString("MEDIA_DIR"),
		MediaURL:       v.GetString("MEDIA_URL"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		S3Region:       v.GetString("S3_REGION"),
		S3Key:          v.GetString("S3_KEY"),
		S3Secret:       v.GetString("S3_SECRET"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3URL:          v.GetString("S3_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		WhatsAppNumber: v.GetString("WHATSAPP_NUMBER"),
		MetricsToken:   v.GetString("METRICS_TOKEN"),
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.SessionSecret == DefaultSessionSecret {
		log.Printf("[warn] SESSION_SECRET not set; using the development default")
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s STORAGE_DISK=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.StorageDisk, cfg.MediaDir, cfg.LogFile)
	return cfg
}

// Validate rejects settings that are only acceptable in development.
func (c Config) Validate() error {
	if c.CookieSecure && c.SessionSecret == DefaultSessionSecret {
		return ErrDefaultSecret
	}
	return nil
}
