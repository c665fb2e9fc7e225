package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jask/creditpane"
)

// Config holds application configuration for the demo binary.
type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
	Log      LogConfig
	Packages []PackageConfig `mapstructure:"package"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LedgerConfig holds reference-ledger settings.
type LedgerConfig struct {
	OpeningBalance int     `mapstructure:"opening_balance"`
	FailureRate    float64 `mapstructure:"failure_rate"` // 0..1, simulated declines
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Path string
}

// PackageConfig is one [[package]] block overriding the built-in set.
type PackageConfig struct {
	ID       string `mapstructure:"id"`
	Credits  int    `mapstructure:"credits"`
	Price    string `mapstructure:"price"`
	Featured bool   `mapstructure:"featured"`
	Savings  string `mapstructure:"savings"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// CREDITPANE_; the config file location can be forced with CREDITPANE_CONFIG.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "creditpane", "creditpane.db"))
	v.SetDefault("ledger.opening_balance", 0)
	v.SetDefault("ledger.failure_rate", 0.0)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "creditpane", "creditpane.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CREDITPANE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "creditpane"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CREDITPANE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Ledger.OpeningBalance < 0 {
		return Config{}, fmt.Errorf("ledger.opening_balance must be non-negative, got %d", c.Ledger.OpeningBalance)
	}
	if c.Ledger.FailureRate < 0 || c.Ledger.FailureRate > 1 {
		return Config{}, fmt.Errorf("ledger.failure_rate must be in [0,1], got %g", c.Ledger.FailureRate)
	}
	return c, nil
}

// CreditPackages converts the configured [[package]] blocks to the component's
// package type. An empty config means the component's built-in defaults apply.
func (c Config) CreditPackages() ([]creditpane.Package, error) {
	if len(c.Packages) == 0 {
		return nil, nil
	}
	pkgs := make([]creditpane.Package, 0, len(c.Packages))
	for _, pc := range c.Packages {
		price, err := decimal.NewFromString(pc.Price)
		if err != nil {
			return nil, fmt.Errorf("package %q: bad price %q: %w", pc.ID, pc.Price, err)
		}
		pkgs = append(pkgs, creditpane.Package{
			ID:       pc.ID,
			Credits:  pc.Credits,
			Price:    price,
			Featured: pc.Featured,
			Savings:  pc.Savings,
		})
	}
	if err := creditpane.ValidatePackages(pkgs); err != nil {
		return nil, fmt.Errorf("configured packages: %w", err)
	}
	return pkgs, nil
}
