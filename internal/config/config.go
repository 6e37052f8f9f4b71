// Package config loads and validates site configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mail drivers.
const (
	DriverEmailJS = "emailjs"
	DriverSMTP    = "smtp"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	DB      DBConfig      `mapstructure:"db"`
	Mail    MailConfig    `mapstructure:"mail"`
	EmailJS EmailJSConfig `mapstructure:"emailjs"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Privacy PrivacyConfig `mapstructure:"privacy"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	Templates       string `mapstructure:"templates"`
	Static          string `mapstructure:"static"`
	ShutdownSeconds int    `mapstructure:"shutdown_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// MailConfig selects the contact-form delivery driver.
type MailConfig struct {
	Driver         string `mapstructure:"driver"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// EmailJSConfig holds the EmailJS account identifiers.
type EmailJSConfig struct {
	ServiceID  string `mapstructure:"service_id"`
	TemplateID string `mapstructure:"template_id"`
	PublicKey  string `mapstructure:"public_key"`
	PrivateKey string `mapstructure:"private_key"`
	Endpoint   string `mapstructure:"endpoint"`
}

// SMTPConfig configures direct mail delivery.
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// PrivacyConfig controls visitor tracking.
type PrivacyConfig struct {
	TrackVisitors bool   `mapstructure:"track_visitors"`
	RetentionDays int    `mapstructure:"retention_days"`
	Salt          string `mapstructure:"salt"`
}

// legacyEnv maps config keys to the unprefixed variable names older
// deployments and .env files use.
var legacyEnv = map[string][]string{
	"server.port":         {"PORT"},
	"smtp.host":           {"SMTP_HOST"},
	"smtp.port":           {"SMTP_PORT"},
	"smtp.user":           {"SMTP_USER"},
	"smtp.pass":           {"SMTP_PASS"},
	"smtp.to":             {"TO_EMAIL"},
	"admin.username":      {"ADMIN_USERNAME"},
	"admin.password":      {"ADMIN_PASSWORD"},
	"emailjs.service_id":  {"EMAILJS_SERVICE_ID", "VITE_EMAILJS_SERVICE_ID"},
	"emailjs.template_id": {"EMAILJS_TEMPLATE_ID", "VITE_EMAILJS_TEMPLATE_ID"},
	"emailjs.public_key":  {"EMAILJS_PUBLIC_KEY", "VITE_EMAILJS_PUBLIC_KEY"},
	"emailjs.private_key": {"EMAILJS_PRIVATE_KEY"},
}

// Load builds a Config from disk/environment. Prefixed variables
// (PORTFOLIO_SERVER_PORT) win over the legacy names.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		prefixed := "PORTFOLIO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.templates", "templates/*")
	v.SetDefault("server.static", "./static")
	v.SetDefault("server.shutdown_seconds", 10)
	v.SetDefault("logging.development", true)
	v.SetDefault("db.path", "portfolio.db")
	v.SetDefault("mail.driver", DriverEmailJS)
	v.SetDefault("mail.timeout_seconds", 10)
	v.SetDefault("emailjs.endpoint", "https://api.emailjs.com")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("privacy.track_visitors", true)
	v.SetDefault("privacy.retention_days", 365)
	v.SetDefault("privacy.salt", "")
}

// Validate enforces required values and reasonable limits. Missing mail
// credentials are not an error: the contact form reports them to visitors.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.ShutdownSeconds <= 0 {
		return fmt.Errorf("server.shutdown_seconds must be > 0")
	}
	switch c.Mail.Driver {
	case DriverEmailJS, DriverSMTP:
	default:
		return fmt.Errorf("mail.driver must be %q or %q, got %q", DriverEmailJS, DriverSMTP, c.Mail.Driver)
	}
	if c.Mail.TimeoutSeconds <= 0 {
		return fmt.Errorf("mail.timeout_seconds must be > 0")
	}
	if c.Privacy.RetentionDays <= 0 {
		return fmt.Errorf("privacy.retention_days must be > 0")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path must be set")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Server.Port) }

// MailTimeout bounds one delivery attempt.
func (c Config) MailTimeout() time.Duration {
	return time.Duration(c.Mail.TimeoutSeconds) * time.Second
}

// Retention is how long visitor rows are kept.
func (c Config) Retention() time.Duration {
	return time.Duration(c.Privacy.RetentionDays) * 24 * time.Hour
}

// ShutdownTimeout bounds graceful shutdown.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}

// DefaultCredentials reports whether the admin login still uses the built-in
// development credentials.
func (c Config) DefaultCredentials() bool {
	return c.Admin.Username == "admin" && c.Admin.Password == "admin123"
}
