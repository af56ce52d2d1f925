package config

import (
	"time"

	"tokenfolio/core"

	"github.com/fox-one/pkg/config"
)

const defaultQuoteEndpoint = "https://api.coingecko.com/api/v3"

// Load load config file
func Load(cfgFile string, cfg *core.Config) error {
	config.AutomaticLoadEnv("TOKENFOLIO")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaultOracle(cfg)
	return nil
}

func defaultOracle(cfg *core.Config) {
	if cfg.Oracle.EndPoint == "" {
		cfg.Oracle.EndPoint = defaultQuoteEndpoint
	}

	if cfg.Oracle.Timeout <= 0 {
		cfg.Oracle.Timeout = 10 * time.Second
	}
}
