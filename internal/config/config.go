// Package config loads application settings from the environment.
package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider
	IdentityJWTSecret string
	IdentityIssuer    string

	// Internal job triggers
	PipelineAPIKey string

	// AI
	GeminiAPIKey string
	GeminiModel  string

	// Email
	ResendAPIKey string
	EmailFrom    string

	// Messaging
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Jobs
	BudgetAlertThreshold    float64
	JobConcurrency          int
	RecurringPerUserLimit   int
	RecurringPerUserWindow  time.Duration
	TransactionCreateLimit  int
	TransactionCreateWindow time.Duration
	BudgetAlertSchedule     string
	RecurringSchedule       string
	MonthlyReportSchedule   string
}

var appConfig *Config

func defaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "welth")
	v.SetDefault("db_password", "welth")
	v.SetDefault("db_name", "welth")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("identity_jwt_secret", "fallback-secret-key-for-dev-only")
	v.SetDefault("identity_issuer", "")
	v.SetDefault("pipeline_api_key", "")

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash")

	v.SetDefault("resend_api_key", "")
	v.SetDefault("email_from", "Welth <onboarding@resend.dev>")

	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", "welth.jobs")
	v.SetDefault("amqp_queue", "welth.recurring")

	v.SetDefault("budget_alert_threshold", 80.0)
	v.SetDefault("job_concurrency", 4)
	v.SetDefault("recurring_per_user_limit", 10)
	v.SetDefault("recurring_per_user_window", "1m")
	v.SetDefault("transaction_create_limit", 10)
	v.SetDefault("transaction_create_window", "1h")
	v.SetDefault("budget_alert_schedule", "0 */6 * * *")
	v.SetDefault("recurring_schedule", "0 0 * * *")
	v.SetDefault("monthly_report_schedule", "0 0 1 * *")
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	v := viper.New()
	defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := &Config{
		Env:  v.GetString("env"),
		Port: v.GetString("port"),

		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		DBSSLMode:  v.GetString("db_sslmode"),

		IdentityJWTSecret: v.GetString("identity_jwt_secret"),
		IdentityIssuer:    v.GetString("identity_issuer"),
		PipelineAPIKey:    v.GetString("pipeline_api_key"),

		GeminiAPIKey: v.GetString("gemini_api_key"),
		GeminiModel:  v.GetString("gemini_model"),

		ResendAPIKey: v.GetString("resend_api_key"),
		EmailFrom:    v.GetString("email_from"),

		AMQPURL:      v.GetString("amqp_url"),
		AMQPExchange: v.GetString("amqp_exchange"),
		AMQPQueue:    v.GetString("amqp_queue"),

		BudgetAlertThreshold:   v.GetFloat64("budget_alert_threshold"),
		JobConcurrency:         v.GetInt("job_concurrency"),
		RecurringPerUserLimit:  v.GetInt("recurring_per_user_limit"),
		TransactionCreateLimit: v.GetInt("transaction_create_limit"),
		BudgetAlertSchedule:    v.GetString("budget_alert_schedule"),
		RecurringSchedule:      v.GetString("recurring_schedule"),
		MonthlyReportSchedule:  v.GetString("monthly_report_schedule"),
	}

	config.RecurringPerUserWindow = parseDuration(v, "recurring_per_user_window", time.Minute)
	config.TransactionCreateWindow = parseDuration(v, "transaction_create_window", time.Hour)

	if config.JobConcurrency < 1 {
		config.JobConcurrency = 1
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", strings.ToUpper(key), raw, fallback)
		return fallback
	}
	return d
}
