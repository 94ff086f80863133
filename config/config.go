// Package config loads service configuration from the environment using
// viper.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultTableName is used when TABLE_NAME is unset.
const DefaultTableName = "employee"

// Config holds every setting of the lambda and the local server.
type Config struct {
	TableName      string `mapstructure:"table_name" validate:"required"`
	RequireAuth    bool   `mapstructure:"require_auth"`
	LogLevel       string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `mapstructure:"log_format" validate:"oneof=json console"`
	Region         string `mapstructure:"aws_region"`
	DynamoEndpoint string `mapstructure:"dynamodb_endpoint" validate:"omitempty,url"`

	LocalAddr      string `mapstructure:"local_addr" validate:"required"`
	LocalJWTSecret string `mapstructure:"local_jwt_secret"`
	LocalStore     string `mapstructure:"local_store" validate:"oneof=memory dynamodb"`

	// TableNameDefaulted is set when TABLE_NAME was not provided and
	// DefaultTableName is in use.
	TableNameDefaulted bool `mapstructure:"-"`
}

var validate = validator.New()

// keys maps config keys to the environment variables they are read from.
var keys = map[string]string{
	"table_name":        "TABLE_NAME",
	"require_auth":      "REQUIRE_AUTH",
	"log_level":         "LOG_LEVEL",
	"log_format":        "LOG_FORMAT",
	"aws_region":        "AWS_REGION",
	"dynamodb_endpoint": "DYNAMODB_ENDPOINT",
	"local_addr":        "LOCAL_ADDR",
	"local_jwt_secret":  "LOCAL_JWT_SECRET",
	"local_store":       "LOCAL_STORE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("require_auth", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("local_addr", ":8080")
	v.SetDefault("local_store", "memory")
}

// Load reads the configuration from the environment. A missing TABLE_NAME
// falls back to DefaultTableName and sets TableNameDefaulted so the caller can
// warn about it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "failed binding %s", env)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	cfg.TableName = strings.TrimSpace(cfg.TableName)
	if cfg.TableName == "" {
		cfg.TableName = DefaultTableName
		cfg.TableNameDefaulted = true
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}
