package config

import (
	"strings"
	"time"
	_ "time/tzdata" // containers without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gym      GymConfig      `mapstructure:"gym"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Email    EmailConfig    `mapstructure:"email"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// S3Config configures the bucket that plan exports are written to.
// An empty BucketName disables uploads and exports are returned inline.
type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	LinkExpiry      time.Duration `mapstructure:"link_expiry"`
}

// JWTConfig defines the operator bearer token settings.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// GymConfig carries the business details printed on exports and the time zone
// that defines a "calendar day" for attendance and membership expiry.
type GymConfig struct {
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	Phone    string `mapstructure:"phone"`
	TimeZone string `mapstructure:"time_zone"`
}

// Location resolves the configured time zone. An empty zone means UTC; an
// unknown one is an error, since it would silently move every day boundary.
func (g GymConfig) Location() (*time.Location, error) {
	if g.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(g.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid gym.time_zone %q", g.TimeZone)
	}
	return loc, nil
}

type NotifierConfig struct {
	HorizonDays int           `mapstructure:"horizon_days"`
	Interval    time.Duration `mapstructure:"interval"`
	Recipient   string        `mapstructure:"recipient"`
}

type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, notifier.horizon_days -> NOTIFIER_HORIZON_DAYS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "gymdesk")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.link_expiry", "15m")
	v.SetDefault("jwt.expiration", "720h")
	v.SetDefault("gym.name", "GymDesk Fitness")
	v.SetDefault("gym.time_zone", "Asia/Kolkata")
	v.SetDefault("notifier.horizon_days", 4)
	v.SetDefault("notifier.interval", "1h")
	v.SetDefault("email.from", "GymDesk <no-reply@gymdesk.local>")

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"jwt.secret", "s3.endpoint", "s3.region", "s3.access_key_id",
		"s3.secret_access_key", "s3.bucket_name", "gym.address", "gym.phone",
		"notifier.recipient", "email.resend_api_key",
	} {
		_ = v.BindEnv(key)
	}

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if _, err = config.Gym.Location(); err != nil {
		return
	}
	return config, nil
}
