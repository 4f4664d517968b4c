package config

import "github.com/kelseyhightower/envconfig"

// Config holds the service-level settings. Database settings stay on plain
// env vars inside the database package.
type Config struct {
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port string `envconfig:"PORT" default:"3000"`

	WalletAPIURL string `envconfig:"WALLET_API_URL" required:"true"`

	OddsAPIURL string `envconfig:"ODDS_API_URL"`
	OddsAPIKey string `envconfig:"ODDS_API_KEY"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
