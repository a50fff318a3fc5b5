package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/lexis-bot/internal/domain/entities"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env       string    `mapstructure:"env"`      // current application environment (local, dev, production etc)
	Telegram  Telegram  `mapstructure:"telegram"` // bot section
	DB        DB        `mapstructure:"database"` // database configuration section
	HTTP      HTTP      `mapstructure:"http"`     // practice API; disabled when addr is empty
	SRS       SRS       `mapstructure:"srs"`
	Quiz      Quiz      `mapstructure:"quiz"`
	Reminders Reminders `mapstructure:"reminders"`
}

type Telegram struct {
	Token string `mapstructure:"-"` // loaded from environment
	Debug bool   `mapstructure:"debug"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

type HTTP struct {
	Addr           string        `mapstructure:"addr"`
	JWTSecret      string        `mapstructure:"-"` // loaded from environment
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Enabled reports whether the practice API should be served.
func (h HTTP) Enabled() bool {
	return h.Addr != ""
}

// SRS tunes the memory model.
type SRS struct {
	RequestRetention float64 `mapstructure:"request_retention"`
	MaximumInterval  float64 `mapstructure:"maximum_interval"`  // days
	MasteryThreshold float64 `mapstructure:"mastery_threshold"` // stability days
}

// Quiz holds the default quiz options; user settings override some of them.
type Quiz struct {
	MultipleChoice   bool          `mapstructure:"multiple_choice"`
	Writing          bool          `mapstructure:"writing"`
	MCDirection      string        `mapstructure:"mc_direction"`
	WritingDirection string        `mapstructure:"writing_direction"`
	RatingMode       string        `mapstructure:"rating_mode"`
	BatchSize        int           `mapstructure:"batch_size"`
	Mode             string        `mapstructure:"mode"`
	Audio            bool          `mapstructure:"audio"`
	SessionLimit     int           `mapstructure:"session_limit"`
	SyncTimeout      time.Duration `mapstructure:"sync_timeout"`
	WarnInterval     time.Duration `mapstructure:"warn_interval"`
}

// QuizConfig converts the section into the engine's configuration.
func (q Quiz) QuizConfig() entities.QuizConfig {
	return entities.QuizConfig{
		MultipleChoice:   q.MultipleChoice,
		Writing:          q.Writing,
		MCDirection:      entities.Direction(q.MCDirection),
		WritingDirection: entities.Direction(q.WritingDirection),
		RatingMode:       entities.RatingMode(q.RatingMode),
		BatchSize:        q.BatchSize,
		Mode:             entities.QuizMode(q.Mode),
		AudioOnQuestion:  q.Audio,
		SyncTimeout:      q.SyncTimeout,
	}
}

type Reminders struct {
	Enabled bool          `mapstructure:"enabled"`
	Spec    string        `mapstructure:"spec"`    // cron spec in UTC
	MinGap  time.Duration `mapstructure:"min_gap"` // minimum time between two reminders to one user
}

// Load reads configuration from config files and environment variables.
// A local .env file, if present, is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.Telegram.Token = v.GetString("telegram_api_token")
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.HTTP.JWTSecret = v.GetString("jwt_secret")
	if cfg.HTTP.Enabled() && cfg.HTTP.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingEnvironmentVariables)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration keys.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("telegram.debug", false)

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("http.addr", "")
	v.SetDefault("http.token_ttl", "720h")
	v.SetDefault("http.allowed_origins", []string{"*"})

	v.SetDefault("srs.request_retention", 0.9)
	v.SetDefault("srs.maximum_interval", 36500)
	v.SetDefault("srs.mastery_threshold", 30)

	def := entities.DefaultQuizConfig()
	v.SetDefault("quiz.multiple_choice", def.MultipleChoice)
	v.SetDefault("quiz.writing", def.Writing)
	v.SetDefault("quiz.mc_direction", string(def.MCDirection))
	v.SetDefault("quiz.writing_direction", string(def.WritingDirection))
	v.SetDefault("quiz.rating_mode", string(def.RatingMode))
	v.SetDefault("quiz.batch_size", def.BatchSize)
	v.SetDefault("quiz.mode", string(def.Mode))
	v.SetDefault("quiz.audio", false)
	v.SetDefault("quiz.session_limit", 20)
	v.SetDefault("quiz.sync_timeout", def.SyncTimeout.String())
	v.SetDefault("quiz.warn_interval", "5s")

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.spec", "0 * * * *")
	v.SetDefault("reminders.min_gap", "12h")
}
