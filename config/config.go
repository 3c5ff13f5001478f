package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
	OTP     OTPConfig
	Twilio  TwilioConfig
	SMTP    SMTPConfig
	Worker  WorkerConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	// AllowedOrigins is the CORS allow list; "*" allows any origin.
	AllowedOrigins []string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig controls the appointment consistency rules.
type BookingConfig struct {
	// AvailabilityPolicy is either "containment" or "exact".
	AvailabilityPolicy string
	Lockout            time.Duration
	LockTTL            time.Duration
}

type OTPConfig struct {
	TTL time.Duration
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Enabled reports whether enough credentials are present to talk to Twilio.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != ""
}

type WorkerConfig struct {
	Concurrency int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("BOOKING_AVAILABILITY_POLICY", "containment")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("WORKER_CONCURRENCY", 10)

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine, everything can come from the environment
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:           viper.GetString("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			LogLevel:       viper.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  parseDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: parseDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Booking: BookingConfig{
			AvailabilityPolicy: viper.GetString("BOOKING_AVAILABILITY_POLICY"),
			Lockout:            parseDuration("BOOKING_LOCKOUT", 24*time.Hour),
			LockTTL:            parseDuration("BOOKING_LOCK_TTL", 5*time.Second),
		},
		OTP: OTPConfig{
			TTL: parseDuration("OTP_TTL", 5*time.Minute),
		},
		Twilio: TwilioConfig{
			AccountSID:  viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:   viper.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber: viper.GetString("TWILIO_PHONE_NUMBER"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Worker: WorkerConfig{
			Concurrency: viper.GetInt("WORKER_CONCURRENCY"),
		},
	}

	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.User
	}

	return config, nil
}

// parseDuration reads a Go duration string, falling back to def when unset or malformed.
func parseDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// splitList turns "a, b,c" into [a b c], dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
