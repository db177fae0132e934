package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Scorer  ScorerConfig  `yaml:"scorer" mapstructure:"scorer"`
	Analyze AnalyzeConfig `yaml:"analyze" mapstructure:"analyze"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnalyzeConfig configures the analyze command.
type AnalyzeConfig struct {
	TopN                   int `yaml:"top_n" mapstructure:"top_n"`
	MaxConcurrentWorkbooks int `yaml:"max_concurrent_workbooks" mapstructure:"max_concurrent_workbooks"`
}

// ScorerConfig holds the scoring weights, boosts, and cutoffs. The
// zero value is invalid; start from scorer.DefaultScorerConfig.
type ScorerConfig struct {
	// Composite weights (sum = 1).
	NeedWeight       float64 `yaml:"need_weight" mapstructure:"need_weight"`
	FitWeight        float64 `yaml:"fit_weight" mapstructure:"fit_weight"`
	BalanceWeight    float64 `yaml:"balance_weight" mapstructure:"balance_weight"`
	ConversionWeight float64 `yaml:"conversion_weight" mapstructure:"conversion_weight"`

	// Affordability fit curve.
	AffordabilityThreshold    float64 `yaml:"affordability_threshold" mapstructure:"affordability_threshold"`
	AffordabilityPenaltySlope float64 `yaml:"affordability_penalty_slope" mapstructure:"affordability_penalty_slope"`
	MinFitScore               float64 `yaml:"min_fit_score" mapstructure:"min_fit_score"`

	// Commission and conversion curves.
	CommissionNormalizer float64 `yaml:"commission_normalizer" mapstructure:"commission_normalizer"`
	ConversionBase       float64 `yaml:"conversion_base" mapstructure:"conversion_base"`
	ConversionPerPolicy  float64 `yaml:"conversion_per_policy" mapstructure:"conversion_per_policy"`

	// Multiplicative boosts.
	LifeEventBoost float64 `yaml:"life_event_boost" mapstructure:"life_event_boost"`
	RenewalBoost   float64 `yaml:"renewal_boost" mapstructure:"renewal_boost"`

	// Emission defaults.
	DefaultCommissionPct float64 `yaml:"default_commission_pct" mapstructure:"default_commission_pct"`
	EssentialNeedScore   float64 `yaml:"essential_need_score" mapstructure:"essential_need_score"`
	OptionalNeedScore    float64 `yaml:"optional_need_score" mapstructure:"optional_need_score"`
	RenewalNeedScore     float64 `yaml:"renewal_need_score" mapstructure:"renewal_need_score"`

	// Ethical filter cutoffs.
	MinNeedScore          float64 `yaml:"min_need_score" mapstructure:"min_need_score"`
	MaxPremiumIncomeRatio float64 `yaml:"max_premium_income_ratio" mapstructure:"max_premium_income_ratio"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "advisor.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("analyze.top_n", 30)
	v.SetDefault("analyze.max_concurrent_workbooks", 4)
	v.SetDefault("scorer.need_weight", 0.30)
	v.SetDefault("scorer.fit_weight", 0.25)
	v.SetDefault("scorer.balance_weight", 0.30)
	v.SetDefault("scorer.conversion_weight", 0.15)
	v.SetDefault("scorer.affordability_threshold", 0.02)
	v.SetDefault("scorer.affordability_penalty_slope", 2000)
	v.SetDefault("scorer.min_fit_score", 20)
	v.SetDefault("scorer.commission_normalizer", 6.67)
	v.SetDefault("scorer.conversion_base", 50)
	v.SetDefault("scorer.conversion_per_policy", 10)
	v.SetDefault("scorer.life_event_boost", 1.20)
	v.SetDefault("scorer.renewal_boost", 1.15)
	v.SetDefault("scorer.default_commission_pct", 8)
	v.SetDefault("scorer.essential_need_score", 95)
	v.SetDefault("scorer.optional_need_score", 70)
	v.SetDefault("scorer.renewal_need_score", 90)
	v.SetDefault("scorer.min_need_score", 30)
	v.SetDefault("scorer.max_premium_income_ratio", 0.15)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
