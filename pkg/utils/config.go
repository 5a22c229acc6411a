package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Session   SessionConfig
	OTP       OTPConfig
	Booking   BookingConfig
	Payment   PaymentConfig
	Sheets    SheetsConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
}

// StoreConfig selects the backend behind the record store.
type StoreConfig struct {
	Driver  string // memory, file, postgres, redis, mongo
	DataDir string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

type SessionConfig struct {
	ExpiryHours int
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type BookingConfig struct {
	DraftTTLMinutes int
}

type PaymentConfig struct {
	StripeSecretKey string
	WebhookSecret   string
	Currency        string
}

type SheetsConfig struct {
	WebhookURL string
	AMQPURL    string
	Queue      string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type UploadConfig struct {
	Dir       string
	MaxPixels int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "petcare-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "Local")
	viper.SetDefault("STORE_DRIVER", "file")
	viper.SetDefault("STORE_DATA_DIR", "data/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "petcare")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("DRAFT_TTL_MINUTES", 30)
	viper.SetDefault("PAYMENT_CURRENCY", "usd")
	viper.SetDefault("AMQP_QUEUE", "booking.created")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("UPLOAD_DIR", "uploads/")
	viper.SetDefault("UPLOAD_MAX_PIXELS", 512)

	// .env is optional, plain environment variables work too
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			Timezone: viper.GetString("APP_TIMEZONE"),
		},
		Store: StoreConfig{
			Driver:  viper.GetString("STORE_DRIVER"),
			DataDir: viper.GetString("STORE_DATA_DIR"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Booking: BookingConfig{
			DraftTTLMinutes: viper.GetInt("DRAFT_TTL_MINUTES"),
		},
		Payment: PaymentConfig{
			StripeSecretKey: viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret:   viper.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:        viper.GetString("PAYMENT_CURRENCY"),
		},
		Sheets: SheetsConfig{
			WebhookURL: viper.GetString("SHEETS_WEBHOOK_URL"),
			AMQPURL:    viper.GetString("AMQP_URL"),
			Queue:      viper.GetString("AMQP_QUEUE"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Upload: UploadConfig{
			Dir:       viper.GetString("UPLOAD_DIR"),
			MaxPixels: viper.GetInt("UPLOAD_MAX_PIXELS"),
		},
	}

	return config, nil
}

// Location resolves APP_TIMEZONE, falling back to the process local zone.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c SessionConfig) Expiry() time.Duration {
	if c.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ExpiryHours) * time.Hour
}

func (c BookingConfig) DraftTTL() time.Duration {
	if c.DraftTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.DraftTTLMinutes) * time.Minute
}
