// Package config collects every tunable the service reads from the
// environment into one explicit Settings value. Usecases receive Settings
// (or a slice of it) as an argument instead of reading ambient state.
package config

import (
	"os"
	"strconv"
	"time"

	"cartcure_ops/internal/domain/pricing"
)

// Settings is the full runtime configuration.
type Settings struct {
	// Record-number prefixes.
	SubmissionPrefix string
	JobPrefix        string
	InvoicePrefix    string

	Pricing pricing.Config

	// SLA tunables.
	DefaultTurnaroundDays int
	AtRiskThresholdDays   int

	// Invoice payment terms: days from send to due.
	InvoiceDueDays int

	// Intake limits.
	RateLimitCeiling int
	RateLimitWindow  time.Duration
	MaxMessageLength int
	MaxNameLength    int
	MaxAudioBytes    int

	// Notification endpoints.
	AdminEmail  string
	MailHost    string
	MailUser    string
	MailPass    string
	MailName    string
	MailAddress string

	MercadoPagoAccessToken string
}

// Load builds Settings from the environment with local-friendly defaults.
// godotenv autoload in main makes a .env file work out of the box.
func Load() Settings {
	return Settings{
		SubmissionPrefix: getenvDefault("SUBMISSION_PREFIX", "CC"),
		JobPrefix:        getenvDefault("JOB_PREFIX", "J"),
		InvoicePrefix:    getenvDefault("INVOICE_PREFIX", "INV"),

		Pricing: pricing.Config{
			TaxRate:           getenvFloat("TAX_RATE", 0.15),
			TaxRegistered:     getenvBool("TAX_REGISTERED", true),
			DepositThreshold:  getenvFloat("DEPOSIT_THRESHOLD", 200),
			SmallMax:          getenvFloat("PROJECT_SMALL_MAX", 200),
			MediumMax:         getenvFloat("PROJECT_MEDIUM_MAX", 500),
			LateFeeRatePerDay: getenvFloat("LATE_FEE_RATE_PER_DAY", 0.01),
		},

		DefaultTurnaroundDays: getenvInt("DEFAULT_TURNAROUND_DAYS", 7),
		AtRiskThresholdDays:   getenvInt("SLA_AT_RISK_DAYS", 2),
		InvoiceDueDays:        getenvInt("INVOICE_DUE_DAYS", 7),

		RateLimitCeiling: getenvInt("RATE_LIMIT_CEILING", 5),
		RateLimitWindow:  time.Duration(getenvInt("RATE_LIMIT_WINDOW_MINUTES", 60)) * time.Minute,
		MaxMessageLength: getenvInt("MAX_MESSAGE_LENGTH", 5000),
		MaxNameLength:    getenvInt("MAX_NAME_LENGTH", 100),
		MaxAudioBytes:    getenvInt("MAX_AUDIO_MB", 10) * 1024 * 1024,

		AdminEmail:  os.Getenv("ADMIN_EMAIL"),
		MailHost:    os.Getenv("MAIL_HOST"),
		MailUser:    os.Getenv("MAIL_USER"),
		MailPass:    os.Getenv("MAIL_PASS"),
		MailName:    getenvDefault("MAIL_NAME", "CartCure"),
		MailAddress: os.Getenv("MAIL_ADDRESS"),

		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
