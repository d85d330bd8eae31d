package config

import (
	"strings"

	"github.com/germanamz/tasksolver/pkg/credential"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKSOLVER_LISTEN.
const EnvPrefix = "TASKSOLVER"

// Overlay keys. Flags with these names bind to them; environment variables
// use EnvPrefix and underscores (relay-url -> TASKSOLVER_RELAY_URL).
const (
	KeyListen        = "listen"
	KeyBasePath      = "base-path"
	KeyRelayURL      = "relay-url"
	KeyDirective     = "directive"
	KeyUpstreamURL   = "upstream-url"
	KeyModel         = "model"
	KeyAPIKey        = "api-key"
	KeyTimeout       = "timeout"
	KeyStore         = "store"
	KeyStorePath     = "store-path"
	KeyRatePerMinute = "rate-per-minute"
	KeyRateBurst     = "rate-burst"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
)

// NewViper returns a viper instance reading TASKSOLVER_* variables and the
// given flag sets. The upstream key is also read from OPENROUTER_API_KEY.
func NewViper(flagSets ...*pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(KeyAPIKey, EnvPrefix+"_API_KEY", credential.EnvVar); err != nil {
		return nil, err
	}

	for _, fs := range flagSets {
		if fs == nil {
			continue
		}
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Overlay copies every key explicitly set in v (environment or changed flag)
// onto c. Flag defaults never override file values.
func (c *Config) Overlay(v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	str(KeyListen, &c.Listen)
	str(KeyBasePath, &c.BasePath)
	str(KeyRelayURL, &c.RelayURL)
	str(KeyDirective, &c.Directive)
	str(KeyUpstreamURL, &c.Upstream.BaseURL)
	str(KeyModel, &c.Upstream.Model)
	str(KeyAPIKey, &c.Upstream.APIKey)
	str(KeyTimeout, &c.Upstream.Timeout)
	str(KeyStore, &c.Store.Backend)
	str(KeyStorePath, &c.Store.Path)
	num(KeyRatePerMinute, &c.RateLimit.PerMinute)
	num(KeyRateBurst, &c.RateLimit.Burst)
	str(KeyLogLevel, &c.Log.Level)
	str(KeyLogFormat, &c.Log.Format)
}
