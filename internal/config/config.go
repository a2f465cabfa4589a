// Package config defines the vcadm configuration.
//
// Defaults come from struct tags (creasty/defaults); values are overridden
// by persistent flags, which in turn pick up VCADM_* environment variables
// through the viper sync on the root command.
//
//	┌─────────────┬───────────┬──────────────────────────────────────────┐
//	│ Field       │ Default   │ Description                              │
//	├─────────────┼───────────┼──────────────────────────────────────────┤
//	│ Servers     │ []        │ vCenter/ESXi endpoints to connect to     │
//	│ Username    │ ""        │ Login user, shared by all endpoints      │
//	│ Password    │ ""        │ Login password                           │
//	│ Insecure    │ false     │ Skip TLS certificate verification        │
//	│ LogLevel    │ "info"    │ zap level                                │
//	│ LogFormat   │ "console" │ "console" or "json"                      │
//	│ Output      │ "table"   │ Report format: table, json or xlsx       │
//	│ OutputFile  │ ""        │ Target file for xlsx output              │
//	└─────────────┴───────────┴──────────────────────────────────────────┘
package config

import (
	"fmt"

	"github.com/creasty/defaults"
	"go.uber.org/zap"
)

type Configuration struct {
	Servers    []string
	Username   string
	Password   string
	Insecure   bool   `default:"false"`
	LogLevel   string `default:"info"`
	LogFormat  string `default:"console"`
	Output     string `default:"table"`
	OutputFile string
}

// NewDefault returns a Configuration with all defaults applied.
func NewDefault() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// NewLogger builds the process logger from the configuration and installs it
// as the zap global.
func NewLogger(cfg *Configuration) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	switch cfg.LogFormat {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
