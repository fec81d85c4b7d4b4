package config

import (
	"fmt"
	"strings"

	"github.com/ankurdental/dentaldesk/pkg/constants"
	"github.com/spf13/viper"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	setDefaults(v)

	// Allow env vars to override config values.
	// e.g. DENTALDESK_STORAGE_PATH overrides storage.path
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional; defaults plus env vars are enough to run
	// the desk against a local sqlite file.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("clinic.name", "ENTNT Dental Center")
	v.SetDefault("clinic.default_region", "IN")
	v.SetDefault("clinic.seed_on_start", true)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "data/dentaldesk.db")
	v.SetDefault("storage.key_prefix", constants.DefaultKeyPrefix)
	v.SetDefault("storage.codec", "json")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 15)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.rate_limit.requests_per_minute", 120)

	v.SetDefault("authentication.session_ttl_minutes", 720)
	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", "dentaldesk")
	v.SetDefault("authentication.paseto.audience", "dentaldesk-api")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 60)

	v.SetDefault("password.algorithm", "argon2id")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output.stdout", true)

	v.SetDefault("observability.service_name", "dentaldesk")
	v.SetDefault("observability.metrics.path", "/metrics")
}
