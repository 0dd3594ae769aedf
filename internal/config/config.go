package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// PersistenceDriverSupabase stores contacts through the Supabase REST API.
	PersistenceDriverSupabase = "supabase"
	// PersistenceDriverPostgres stores contacts through GORM on a Postgres DSN.
	PersistenceDriverPostgres = "postgres"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	PersistenceDriver   string
	SupabaseURL         string
	SupabaseKey         string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	NATSSubject         string
	ContactRateLimit    int
	ContactDedupeTTL    time.Duration
	MailAPIKey          string
	MailBaseURL         string
	MailFrom            string
	MailRecipient       string
	MailTimeZone        string
	NotifyTimeout       time.Duration
	NotifyServiceSecret string
	OpenAIAPIKey        string
	ImageModel          string
	ImageDir            string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// PersistenceStatus reports which persistence credentials were supplied at startup.
type PersistenceStatus struct {
	HasURL       bool `json:"hasUrl"`
	HasKey       bool `json:"hasKey"`
	IsConfigured bool `json:"isConfigured"`
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Persistence reports whether the selected persistence backend has its connection parameters.
// A Postgres DSN carries its own credentials, so it counts as both URL and key.
func (c Config) Persistence() PersistenceStatus {
	var status PersistenceStatus
	switch c.PersistenceDriver {
	case PersistenceDriverPostgres:
		status.HasURL = c.DatabaseURL != ""
		status.HasKey = c.DatabaseURL != ""
	default:
		status.HasURL = c.SupabaseURL != ""
		status.HasKey = c.SupabaseKey != ""
	}
	status.IsConfigured = status.HasURL && status.HasKey
	return status
}

// EmailConfigured reports whether the email provider credentials are present.
func (c Config) EmailConfigured() bool {
	return c.MailAPIKey != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STAMINA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// legacy names used by the hosted deployment
	_ = v.BindEnv("supabase.url", "STAMINA_SUPABASE_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	_ = v.BindEnv("supabase.key", "STAMINA_SUPABASE_KEY", "SUPABASE_KEY", "NEXT_PUBLIC_SUPABASE_PUBLISHABLE_DEFAULT_KEY")
	_ = v.BindEnv("mail.api_key", "STAMINA_MAIL_API_KEY", "RESEND_API_KEY")
	_ = v.BindEnv("openai_api_key", "STAMINA_OPENAI_API_KEY", "OPENAI_API_KEY")

	v.SetDefault("app.name", "STAMINA PENGJU API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("persistence.driver", PersistenceDriverSupabase)
	v.SetDefault("nats.subject", "stamina.contacts.created")
	v.SetDefault("contact.rate_limit", 5)
	v.SetDefault("contact.dedupe_ttl", "5m")
	v.SetDefault("mail.base_url", "https://api.resend.com")
	v.SetDefault("mail.from", "STAMINA PENGJU <no-reply@staminaintl.com>")
	v.SetDefault("mail.recipient", "gerente@staminaintl.com")
	v.SetDefault("mail.timezone", "America/Panama")
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("image.model", "dall-e-3")
	v.SetDefault("image.dir", "public/generated-images")
	v.SetDefault("cloudinary.folder", "stamina/generated")

	readTimeout, err := parseDuration(v, "http.read_timeout")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := parseDuration(v, "http.write_timeout")
	if err != nil {
		return Config{}, err
	}
	dedupeTTL, err := parseDuration(v, "contact.dedupe_ttl")
	if err != nil {
		return Config{}, err
	}
	notifyTimeout, err := parseDuration(v, "notify.timeout")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		ReadTimeout:         readTimeout,
		WriteTimeout:        writeTimeout,
		PersistenceDriver:   strings.ToLower(strings.TrimSpace(v.GetString("persistence.driver"))),
		SupabaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString("supabase.url")), "/"),
		SupabaseKey:         strings.TrimSpace(v.GetString("supabase.key")),
		DatabaseURL:         strings.TrimSpace(v.GetString("database.url")),
		RedisURL:            strings.TrimSpace(v.GetString("redis.url")),
		NATSURL:             strings.TrimSpace(v.GetString("nats.url")),
		NATSSubject:         v.GetString("nats.subject"),
		ContactRateLimit:    v.GetInt("contact.rate_limit"),
		ContactDedupeTTL:    dedupeTTL,
		MailAPIKey:          strings.TrimSpace(v.GetString("mail.api_key")),
		MailBaseURL:         strings.TrimRight(v.GetString("mail.base_url"), "/"),
		MailFrom:            v.GetString("mail.from"),
		MailRecipient:       strings.TrimSpace(v.GetString("mail.recipient")),
		MailTimeZone:        v.GetString("mail.timezone"),
		NotifyTimeout:       notifyTimeout,
		NotifyServiceSecret: v.GetString("notify.service_secret"),
		OpenAIAPIKey:        strings.TrimSpace(v.GetString("openai_api_key")),
		ImageModel:          v.GetString("image.model"),
		ImageDir:            v.GetString("image.dir"),
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
	}

	switch cfg.PersistenceDriver {
	case PersistenceDriverSupabase, PersistenceDriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported persistence driver %q", cfg.PersistenceDriver)
	}

	if _, err := time.LoadLocation(cfg.MailTimeZone); err != nil {
		return Config{}, fmt.Errorf("invalid mail timezone: %w", err)
	}

	if cfg.ContactRateLimit <= 0 {
		cfg.ContactRateLimit = 5
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
