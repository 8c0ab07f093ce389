package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Gate      GateConfig
	Invoices  InvoicesConfig
	Printer   PrinterConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// BackendConfig points at the remote Forto REST backend
type BackendConfig struct {
	URL     string
	Timeout time.Duration
	// Service credentials; empty ClientID disables the client-credentials flow
	ClientID      string
	ClientSecret  string
	TokenURL      string
	WebhookSecret string
	// DemoMode serves everything from the in-memory backend
	DemoMode bool
}

// DatabaseConfig is the local store for idempotency keys.
// An empty Host keeps the keys in memory.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// GateConfig describes the cashier area guarded by the shift gate
type GateConfig struct {
	BranchID       int64
	GatedPrefixes  []string
	StartShiftPath string
	LandingPath    string
}

type InvoicesConfig struct {
	PageSize     int
	ClearOnError bool
}

// PrinterConfig selects the branch receipt printer. Target is a device path or host:port.
type PrinterConfig struct {
	Type      string
	Target    string
	Width     int
	StoreName string
	Address   string
	Phone     string
	TaxID     string
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Backend: BackendConfig{
			URL:           strings.TrimRight(viper.GetString("BACKEND_URL"), "/"),
			Timeout:       time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
			ClientID:      viper.GetString("BACKEND_CLIENT_ID"),
			ClientSecret:  viper.GetString("BACKEND_CLIENT_SECRET"),
			TokenURL:      viper.GetString("BACKEND_TOKEN_URL"),
			WebhookSecret: viper.GetString("BACKEND_WEBHOOK_SECRET"),
			DemoMode:      viper.GetBool("BACKEND_DEMO_MODE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Gate: GateConfig{
			BranchID:       viper.GetInt64("BRANCH_ID"),
			GatedPrefixes:  viper.GetStringSlice("GATE_PREFIXES"),
			StartShiftPath: viper.GetString("GATE_START_SHIFT_PATH"),
			LandingPath:    viper.GetString("GATE_LANDING_PATH"),
		},
		Invoices: InvoicesConfig{
			PageSize:     viper.GetInt("INVOICES_PAGE_SIZE"),
			ClearOnError: viper.GetBool("INVOICES_CLEAR_ON_ERROR"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			Target:    viper.GetString("PRINTER_TARGET"),
			Width:     viper.GetInt("PRINTER_WIDTH"),
			StoreName: viper.GetString("RECEIPT_STORE_NAME"),
			Address:   viper.GetString("RECEIPT_ADDRESS"),
			Phone:     viper.GetString("RECEIPT_PHONE"),
			TaxID:     viper.GetString("RECEIPT_TAX_ID"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "forto-backoffice")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("BACKEND_URL", "http://localhost:9000")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("BACKEND_DEMO_MODE", false)
	viper.SetDefault("DB_HOST", "")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "forto_backoffice")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("BRANCH_ID", 1)
	viper.SetDefault("GATE_PREFIXES", "/cashier")
	viper.SetDefault("GATE_START_SHIFT_PATH", "/cashier/start-shift")
	viper.SetDefault("GATE_LANDING_PATH", "/cashier/invoices")
	viper.SetDefault("INVOICES_PAGE_SIZE", 10)
	viper.SetDefault("INVOICES_CLEAR_ON_ERROR", false)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("RECEIPT_STORE_NAME", "Forto")
	viper.SetDefault("LOG_LEVEL", "info")
}

// UsesDatabase reports whether a Postgres host is configured
func (c *DatabaseConfig) UsesDatabase() bool {
	return c.Host != ""
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
