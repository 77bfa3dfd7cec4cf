package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	JWTSecret   string
	CORSOrigins string

	ChallengeVerifyURL string
	ChallengeSecret    string
	ChallengeTimeout   time.Duration
	ApplicationScore   float64
	RequestScore       float64
	ContactScore       float64

	SubmitMaxAttempts int
	SubmitBaseDelay   time.Duration
	DedupeTTL         time.Duration

	NotifyRedisChannel string
	NotifyNATSSubject  string
	ContactNATSSubject string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("UNILANCER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Unilancer API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("challenge.verify_url", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("challenge.timeout", "5s")
	v.SetDefault("challenge.application_score", 0.3)
	v.SetDefault("challenge.request_score", 0.3)
	v.SetDefault("challenge.contact_score", 0.2)
	v.SetDefault("submit.max_attempts", 3)
	v.SetDefault("submit.base_delay", "200ms")
	v.SetDefault("submit.dedupe_ttl", "5m")
	v.SetDefault("notify.redis_channel", "unilancer.notifications")
	v.SetDefault("notify.nats_subject", "unilancer.records")
	v.SetDefault("contact.nats_subject", "unilancer.contact")

	challengeTimeout, err := time.ParseDuration(v.GetString("challenge.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid challenge timeout: %w", err)
	}

	baseDelay, err := time.ParseDuration(v.GetString("submit.base_delay"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit base delay: %w", err)
	}

	dedupeTTL, err := time.ParseDuration(v.GetString("submit.dedupe_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dedupe ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		CORSOrigins:        v.GetString("cors.origins"),
		ChallengeVerifyURL: v.GetString("challenge.verify_url"),
		ChallengeSecret:    v.GetString("challenge.secret"),
		ChallengeTimeout:   challengeTimeout,
		ApplicationScore:   v.GetFloat64("challenge.application_score"),
		RequestScore:       v.GetFloat64("challenge.request_score"),
		ContactScore:       v.GetFloat64("challenge.contact_score"),
		SubmitMaxAttempts:  v.GetInt("submit.max_attempts"),
		SubmitBaseDelay:    baseDelay,
		DedupeTTL:          dedupeTTL,
		NotifyRedisChannel: v.GetString("notify.redis_channel"),
		NotifyNATSSubject:  v.GetString("notify.nats_subject"),
		ContactNATSSubject: v.GetString("contact.nats_subject"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SubmitMaxAttempts <= 0 {
		cfg.SubmitMaxAttempts = 3
	}

	return cfg, nil
}
