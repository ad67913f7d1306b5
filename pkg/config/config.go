package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key"

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	NATS      NATSConfig // registration mail queue + task events
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	FrontendURL string // ใช้สร้าง verification link
}

type DatabaseConfig struct {
	Driver   string // postgres, memory
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig สำหรับ rate limiter storage
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
}

type NATSConfig struct {
	URL string // nats://localhost:4222
}

type JWTConfig struct {
	Secret             string
	VerificationSecret string // ว่างได้ จะ derive จาก Secret
	AccessTTL          time.Duration
	VerificationTTL    time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

// MailConfig SMTP สำหรับส่ง verification email
type MailConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	LogoURL     string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type CORSConfig struct {
	AllowOrigins string
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	mailPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	mailEnabled := getEnv("MAIL_ENABLED", "false") == "true"

	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "200"))

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "TaskHub API"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "taskhub"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			VerificationSecret: getEnv("JWT_VERIFICATION_SECRET", ""),
			AccessTTL:          getDuration("JWT_ACCESS_TTL", 24*time.Hour),
			VerificationTTL:    getDuration("JWT_VERIFICATION_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Mail: MailConfig{
			Enabled:     mailEnabled,
			Host:        getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:        mailPort,
			Username:    getEnv("SMTP_MAIL", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("MAIL_FROM", getEnv("SMTP_MAIL", "")),
			FromName:    getEnv("MAIL_FROM_NAME", "TaskHub"),
			LogoURL:     getEnv("COMPANY_LOGO_URL", "https://via.placeholder.com/200x100.png?text=Company+Logo"),
		},
		RateLimit: RateLimitConfig{
			Max:    rateLimitMax,
			Window: getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate ตรวจค่าที่ขาดไม่ได้ก่อน start
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.VerificationTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return errors.New("DB_DRIVER must be postgres or memory")
	}
	return nil
}

// UsesDefaultJWTSecret true ถ้ายังใช้ secret ค่า default อยู่
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWT.Secret == defaultJWTSecret
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration รับได้ทั้ง "24h" และจำนวนวินาที "86400"
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
