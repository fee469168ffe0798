package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DEPOTVERGLEICH_SERVER_ADDR
const EnvPrefix = "DEPOTVERGLEICH"

// Settings is the application configuration, independent of any scenario
type Settings struct {
	Log      LogSettings      `mapstructure:"log"`
	Data     DataSettings     `mapstructure:"data"`
	Server   ServerSettings   `mapstructure:"server"`
	Database DatabaseSettings `mapstructure:"database"`
	Auth     AuthSettings     `mapstructure:"auth"`
	Simulate SimulateSettings `mapstructure:"simulate"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// DataSettings points at refreshed reference data; empty uses the bundled files
type DataSettings struct {
	Dir string `mapstructure:"dir"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseSettings selects the store; an empty URL keeps records in memory
type DatabaseSettings struct {
	URL string `mapstructure:"url"`
}

// AuthSettings enables HS256 bearer auth on the API when the secret is set
type AuthSettings struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SimulateSettings struct {
	Concurrency int  `mapstructure:"concurrency"`
	StrictAges  bool `mapstructure:"strict_ages"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("data.dir", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("simulate.concurrency", 4)
	v.SetDefault("simulate.strict_ages", false)
}

// LoadSettings reads settings from defaults, an optional file and the environment.
// An empty path searches for depotvergleich.yaml in the working directory and
// $HOME/.depotvergleich; a missing file is not an error in that case.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("depotvergleich")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.depotvergleich")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}
	if s.Simulate.Concurrency <= 0 {
		s.Simulate.Concurrency = 1
	}
	return &s, nil
}
