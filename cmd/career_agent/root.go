package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-recommender/internal/config"
	"github.com/jonathan/career-recommender/internal/logger"
	"github.com/jonathan/career-recommender/internal/server/ratelimit"
	"github.com/jonathan/career-recommender/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "career_agent"

// Settings is the process configuration. Every key can be set from the
// environment by its upper-cased name, e.g. DATABASE_URL.
type Settings struct {
	DatabaseURL           string        `mapstructure:"database_url"`
	RedisURL              string        `mapstructure:"redis_url"`
	Port                  int           `mapstructure:"port"`
	FrontendURL           string        `mapstructure:"frontend_url"`
	JWTSecret             string        `mapstructure:"jwt_secret"`
	JWTExpirationHours    int           `mapstructure:"jwt_expiration_hours"`
	BcryptCost            int           `mapstructure:"bcrypt_cost"`
	PasswordPepper        string        `mapstructure:"password_pepper"`
	DialogflowProjectID   string        `mapstructure:"dialogflow_project_id"`
	DialogflowCredentials string        `mapstructure:"dialogflow_credentials"`
	DialogflowLanguage    string        `mapstructure:"dialogflow_language"`
	ScoringConfigFile     string        `mapstructure:"scoring_config"`
	ScoringMatcher        string        `mapstructure:"scoring_matcher"`
	ScoringInterestMode   string        `mapstructure:"scoring_interest_mode"`
	BackfillSchedule      string        `mapstructure:"catalog_backfill_schedule"`
	SessionTTL            time.Duration `mapstructure:"session_ttl"`
	LogJSON               bool          `mapstructure:"log_json"`
	LogDebug              bool          `mapstructure:"log_debug"`
}

var (
	v = newViper()

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "Career recommender API server and catalog tools",
		Long: "career_agent ranks careers against a user's skills and interests. It serves the REST API " +
			"and Dialogflow webhook, and maintains the career catalog.",
		SilenceUsage: true,
	}
)

// newViper returns a viper instance with every known key defaulted and
// bound to the environment.
func newViper() *viper.Viper {
	vp := viper.New()
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()

	vp.SetDefault("database_url", "")
	vp.SetDefault("redis_url", "")
	vp.SetDefault("port", 8080)
	vp.SetDefault("frontend_url", "")
	vp.SetDefault("jwt_secret", "")
	vp.SetDefault("jwt_expiration_hours", config.DefaultJWTExpirationHours)
	vp.SetDefault("bcrypt_cost", config.DefaultBcryptCost)
	vp.SetDefault("password_pepper", "")
	vp.SetDefault("dialogflow_project_id", "")
	vp.SetDefault("dialogflow_credentials", "")
	vp.SetDefault("dialogflow_language", "")
	vp.SetDefault("scoring_config", "")
	vp.SetDefault("scoring_matcher", "")
	vp.SetDefault("scoring_interest_mode", "")
	vp.SetDefault("catalog_backfill_schedule", "")
	vp.SetDefault("session_ttl", session.DefaultTTL)
	vp.SetDefault("log_json", false)
	vp.SetDefault("log_debug", false)
	ratelimit.SetDefaults(vp)
	return vp
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("scoring-config", "", "JSON file tuning the recommendation policy")

	mustBindPFlag("log_debug", rootCmd.PersistentFlags().Lookup("debug"))
	mustBindPFlag("log_json", rootCmd.PersistentFlags().Lookup("json"))
	mustBindPFlag("scoring_config", rootCmd.PersistentFlags().Lookup("scoring-config"))
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
	}
}

// loadSettings decodes the configuration held by v.
func loadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &s, nil
}

// newLogger builds the process logger from the settings.
func newLogger(s *Settings) (*zap.Logger, error) {
	log, err := logger.New(s.LogJSON, s.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log.Named(app), nil
}

// scoringConfig combines the SCORING_* environment overrides with the
// optional policy file. The environment wins where both are set.
func scoringConfig(s *Settings) (*config.ScoringConfig, error) {
	cfg := config.ScoringConfig{
		Matcher:      s.ScoringMatcher,
		InterestMode: s.ScoringInterestMode,
	}
	if s.ScoringConfigFile == "" {
		return &cfg, nil
	}

	fromFile, err := config.LoadScoringConfig(s.ScoringConfigFile)
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(*fromFile)
	return &merged, nil
}
