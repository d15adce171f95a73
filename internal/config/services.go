package config

import "time"

// UploadConfig controls where content uploads are stored. S3 is used when
// Bucket is set; otherwise files land under LocalDir and are served from
// PublicBaseURL.
type UploadConfig struct {
	MaxBytes      int64
	Bucket        string
	Region        string
	PresignTTL    time.Duration
	LocalDir      string
	PublicBaseURL string
}

// LoadUploadConfig reads UPLOAD_* and S3_* variables.
func LoadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxBytes:      envInt64("UPLOAD_MAX_BYTES", 100<<20),
		Bucket:        envStr("S3_BUCKET", ""),
		Region:        envStr("S3_REGION", ""),
		PresignTTL:    envDur("S3_PRESIGN_TTL", 24*time.Hour),
		LocalDir:      envStr("UPLOAD_DIR", "uploads"),
		PublicBaseURL: envStr("UPLOAD_PUBLIC_URL", "/uploads"),
	}
}

// PaymentConfig selects and configures the charger. A Stripe key switches
// from the simulated charger to Stripe Checkout, whose bookings are
// confirmed by webhook events signed with StripeWebhookSecret.
type PaymentConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string
	SuccessURL          string
	CancelURL           string
	SimulatedDelay      time.Duration
}

// LoadPaymentConfig reads STRIPE_* and PAYMENT_* variables.
func LoadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		StripeSecretKey:     envStr("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: envStr("STRIPE_WEBHOOK_SECRET", ""),
		Currency:            envStr("PAYMENT_CURRENCY", "usd"),
		SuccessURL:          envStr("STRIPE_SUCCESS_URL", "http://localhost:5173/confirmation"),
		CancelURL:           envStr("STRIPE_CANCEL_URL", "http://localhost:5173/dashboard"),
		SimulatedDelay:      envDur("PAYMENT_SIMULATED_DELAY", 2*time.Second),
	}
}

// JobsConfig configures background jobs.
type JobsConfig struct {
	CompletionInterval time.Duration
}

// LoadJobsConfig reads COMPLETION_INTERVAL.
func LoadJobsConfig() JobsConfig {
	return JobsConfig{CompletionInterval: envDur("COMPLETION_INTERVAL", 5*time.Minute)}
}
