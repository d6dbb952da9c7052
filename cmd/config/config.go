package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
)

const (
	DefaultConfigDir    = "config"
	DefaultConfigFile   = "config.toml"
	DefaultWalletKeyDir = "walkeys"
	DefaultChainID      = "burnboost-localnet"
	DefaultLedgerCache  = 10000
)

// BurnBoostConfig is the `[burnboost]` section of config.toml.
type BurnBoostConfig struct {
	ChainID         string `mapstructure:"chain_id"`
	LedgerCacheSize int    `mapstructure:"ledger_cache_size"`
	// CommitEveryOp commits the ledgers after every CLI operation
	// that is applied to the local data dir.
	CommitEveryOp bool `mapstructure:"commit_every_op"`
}

type Config struct {
	tmcfg.BaseConfig `mapstructure:",squash"`
	BurnBoost        *BurnBoostConfig `mapstructure:"burnboost"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseConfig: tmcfg.DefaultBaseConfig(),
		BurnBoost: &BurnBoostConfig{
			ChainID:         DefaultChainID,
			LedgerCacheSize: DefaultLedgerCache,
			CommitEveryOp:   true,
		},
	}
}

func (c *Config) SetRoot(root string) *Config {
	c.RootDir = root
	return c
}

func (c *Config) ChainID() string {
	return c.BurnBoost.ChainID
}

func (c *Config) ConfigFile() string {
	return filepath.Join(c.RootDir, DefaultConfigDir, DefaultConfigFile)
}

func (c *Config) WalletKeyDir() string {
	return filepath.Join(c.RootDir, DefaultWalletKeyDir)
}

func (c *Config) ValidateBasic() error {
	if err := c.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if c.BurnBoost == nil {
		return xerrors.NewOrdinary("missing [burnboost] section")
	}
	if c.BurnBoost.ChainID == "" {
		return xerrors.NewOrdinary("empty burnboost.chain_id")
	}
	if c.BurnBoost.LedgerCacheSize < 0 {
		return xerrors.NewOrdinary("negative burnboost.ledger_cache_size")
	}
	return nil
}

// LoadConfig reads config.toml under `root`, if it exists, and applies
// the values bound to `v` (flags and BURNBOOST_* environment variables).
func LoadConfig(v *viper.Viper, root string) (*Config, error) {
	conf := DefaultConfig().SetRoot(root)

	v.SetConfigFile(conf.ConfigFile())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := v.Unmarshal(conf); err != nil {
		return nil, err
	}
	conf.SetRoot(root)
	if err := conf.ValidateBasic(); err != nil {
		return nil, err
	}
	return conf, nil
}

// WriteConfigFile writes the fields of `c` that this application reads.
func WriteConfigFile(c *Config) error {
	v := viper.New()
	v.Set("proxy_app", c.ProxyApp)
	v.Set("moniker", c.Moniker)
	v.Set("db_dir", c.DBPath)
	v.Set("log_level", c.LogLevel)
	v.Set("log_format", c.LogFormat)
	v.Set("abci", c.ABCI)
	v.Set("burnboost.chain_id", c.BurnBoost.ChainID)
	v.Set("burnboost.ledger_cache_size", c.BurnBoost.LedgerCacheSize)
	v.Set("burnboost.commit_every_op", c.BurnBoost.CommitEveryOp)
	return v.WriteConfigAs(c.ConfigFile())
}
