// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"

	"github.com/curvetrade/engine/internal/types"
)

// Config описывает конфигурацию торгового движка.
// Приватный ключ и RPC пробрасываются явно при создании движка —
// никакого процесс-глобального состояния.
type Config struct {
	RPCURL        string               `mapstructure:"rpc_url"`
	PrivateKey    string               `mapstructure:"private_key"`
	SendAttempts  int                  `mapstructure:"send_attempts"`
	SkipPreflight bool                 `mapstructure:"skip_preflight"`
	Simulate      bool                 `mapstructure:"simulate"`
	Slippage      types.SlippageConfig `mapstructure:"slippage"`
	DebugLogging  bool                 `mapstructure:"debug_logging"`
	LogFile       string               `mapstructure:"log_file"`
}

const (
	// DefaultSendAttempts — бюджет повторов отправки транзакции.
	DefaultSendAttempts = 5
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"send_attempts":         DefaultSendAttempts,
		"skip_preflight":        true,
		"simulate":              false,
		"slippage.type":         string(types.SlippagePercent),
		"slippage.basis_points": types.DefaultSlippage().BasisPoints,
		"log_file":              "trader.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.RPCURL == "" {
		return errors.New("rpc_url is required")
	}
	if err := validateURL(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if cfg.PrivateKey == "" {
		return errors.New("missing private key in configuration")
	}
	if cfg.SendAttempts <= 0 {
		return errors.New("invalid send_attempts count")
	}
	switch cfg.Slippage.Type {
	case types.SlippagePercent, types.SlippageFixed, types.SlippageNone:
	default:
		return errors.New("invalid slippage type")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("CURVE_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Приватный ключ предпочтительно передавать через окружение,
	// чтобы не хранить его в файле конфигурации
	envKey := v.GetString("PRIVATE_KEY")
	if envKey != "" {
		cfg.PrivateKey = envKey
	}

	envRPC := v.GetString("RPC_URL")
	if envRPC != "" {
		cfg.RPCURL = strings.TrimSpace(envRPC)
	}
	return nil
}
