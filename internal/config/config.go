package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// EngineConfig carries the thresholds for the rule and scoring engines.
// Everything has a sensible default; deployments only override what they
// need.
type EngineConfig struct {
	Readiness      ReadinessConfig      `mapstructure:"readiness"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Publishing     PublishingConfig     `mapstructure:"publishing"`
}

// ReadinessConfig sets the data-freshness boundaries (inclusive, in days)
// and the progress floor for counting a prerequisite as nearly ready.
type ReadinessConfig struct {
	CurrentMaxDays   int `mapstructure:"current_max_days"`
	RecentMaxDays    int `mapstructure:"recent_max_days"`
	DatedMaxDays     int `mapstructure:"dated_max_days"`
	NearlyReadyFloor int `mapstructure:"nearly_ready_floor"`
}

// RecommendationConfig sets the readiness percentages that bucket ranked
// candidates.
type RecommendationConfig struct {
	ImmediateThreshold int `mapstructure:"immediate_threshold"`
	NearTermThreshold  int `mapstructure:"near_term_threshold"`
	LongTermThreshold  int `mapstructure:"long_term_threshold"`
}

// PublishingConfig sets the validation score below which publication is
// approval-gated.
type PublishingConfig struct {
	QualityApprovalFloor int `mapstructure:"quality_approval_floor"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling, e.g. server.address -> SERVER_ADDRESS.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "exercise_engine")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "1h")

	viper.SetDefault("engine.readiness.current_max_days", 7)
	viper.SetDefault("engine.readiness.recent_max_days", 30)
	viper.SetDefault("engine.readiness.dated_max_days", 90)
	viper.SetDefault("engine.readiness.nearly_ready_floor", 70)
	viper.SetDefault("engine.recommendation.immediate_threshold", 90)
	viper.SetDefault("engine.recommendation.near_term_threshold", 70)
	viper.SetDefault("engine.recommendation.long_term_threshold", 50)
	viper.SetDefault("engine.publishing.quality_approval_floor", 80)

	err = viper.ReadInConfig()
	// Missing config file is fine; env vars and defaults cover everything.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
