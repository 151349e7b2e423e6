package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process-wide settings, loaded once at startup and treated
// as read-only afterwards.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`

	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsPath     string `envconfig:"MIGRATIONS_PATH" default:"migrations"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	// S3-compatible media store for avatars, thumbnails and lecture video.
	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// Recurring-billing payment gateway.
	GatewayBaseURL   string `envconfig:"GATEWAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	GatewayKeyID     string `envconfig:"GATEWAY_KEY_ID" required:"true"`
	GatewayKeySecret string `envconfig:"GATEWAY_KEY_SECRET" required:"true"`
	GatewayPlanID    string `envconfig:"GATEWAY_PLAN_ID" required:"true"`

	// Transactional email.
	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@localhost"`
	// Recipient of /contact relay mail; the process refuses to start without it
	// so the relay never mails an empty address.
	ContactEmail string `envconfig:"CONTACT_EMAIL" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether debug details (stack traces) must be withheld
// from API responses.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
