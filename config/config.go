package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// App holds runtime configuration sourced from env vars.
type App struct {
	Port        string `envconfig:"PORT" default:"8080"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"` // postgres or memory
	DBURL       string `envconfig:"DB_URL"`
	DBMaxIdle   int    `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	DBMaxOpen   int    `envconfig:"DB_MAX_OPEN_CONNS" default:"50"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiryHours int    `envconfig:"JWT_EXPIRY_HOURS" default:"24"`
	SessionSweep   string `envconfig:"SESSION_SWEEP_CRON" default:"@every 10m"`

	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	GinMode     string `envconfig:"GIN_MODE" default:"release"`

	DailyReportCron      string `envconfig:"DAILY_REPORT_CRON" default:"0 21 * * *"`
	TwilioAccountSID     string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `envconfig:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `envconfig:"TWILIO_WHATSAPP_NUMBER"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

func (c App) JWTTTL() time.Duration {
	if c.JWTExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c App) AllowedOrigins() []string {
	var out []string
	for _, part := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ReportsEnabled reports whether Twilio credentials are configured.
func (c App) ReportsEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.DailyReportCron != ""
}
