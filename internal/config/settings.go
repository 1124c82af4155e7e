package config

import (
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by LoadSettings
const EnvPrefix = "MNEMNK_APPLICATION"

// Settings holds process-level knobs that are not part of the agent protocol
type Settings struct {
	LogLevel  string
	LogPretty bool
}

// LoadSettings reads Settings from the environment, e.g.
// MNEMNK_APPLICATION_LOG_LEVEL=debug and MNEMNK_APPLICATION_LOG_PRETTY=true.
func LoadSettings() Settings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	return Settings{
		LogLevel:  v.GetString("log_level"),
		LogPretty: v.GetBool("log_pretty"),
	}
}
