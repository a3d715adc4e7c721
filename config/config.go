package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/VinceNguyen000/blockchain-assignment1/ledger"
)

// Config represents the driver configuration
type Config struct {
	Ledger  LedgerConfig  `yaml:"ledger"`
	Miner   MinerConfig   `yaml:"miner"`
	Log     LogConfig     `yaml:"log"`
	Inspect InspectConfig `yaml:"inspect"`
}

// LedgerConfig selects the chain parameters
type LedgerConfig struct {
	Difficulty  int    `yaml:"difficulty"`
	Hasher      string `yaml:"hasher"`
	Codec       string `yaml:"codec"`
	MineGenesis bool   `yaml:"mine_genesis"`
}

// MinerConfig bounds the nonce search
type MinerConfig struct {
	Workers     int           `yaml:"workers"`
	MaxAttempts uint64        `yaml:"max_attempts"` // 0 means unbounded
	Timeout     time.Duration `yaml:"timeout"`      // per block, 0 means none
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// InspectConfig represents the read-only HTTP inspection server
type InspectConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Difficulty: 3,
			Hasher:     "sha256",
			Codec:      "json",
		},
		Miner: MinerConfig{
			Workers: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
		Inspect: InspectConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load loads configuration from a YAML file and environment variables.
// A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv() error {
	var errs []error

	if v := os.Getenv("POWLEDGER_DIFFICULTY"); v != "" {
		d, err := strconv.Atoi(v)
		errs = append(errs, envErr("POWLEDGER_DIFFICULTY", err))
		if err == nil {
			c.Ledger.Difficulty = d
		}
	}
	if v := os.Getenv("POWLEDGER_HASHER"); v != "" {
		c.Ledger.Hasher = v
	}
	if v := os.Getenv("POWLEDGER_CODEC"); v != "" {
		c.Ledger.Codec = v
	}
	if v := os.Getenv("POWLEDGER_MINE_GENESIS"); v != "" {
		c.Ledger.MineGenesis = v == "true" || v == "1"
	}

	if v := os.Getenv("POWLEDGER_WORKERS"); v != "" {
		w, err := strconv.Atoi(v)
		errs = append(errs, envErr("POWLEDGER_WORKERS", err))
		if err == nil {
			c.Miner.Workers = w
		}
	}
	if v := os.Getenv("POWLEDGER_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		errs = append(errs, envErr("POWLEDGER_MAX_ATTEMPTS", err))
		if err == nil {
			c.Miner.MaxAttempts = n
		}
	}
	if v := os.Getenv("POWLEDGER_MINE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("POWLEDGER_MINE_TIMEOUT", err))
		if err == nil {
			c.Miner.Timeout = d
		}
	}

	if v := os.Getenv("POWLEDGER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv("POWLEDGER_INSPECT_ENABLED"); v != "" {
		c.Inspect.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("POWLEDGER_INSPECT_HOST"); v != "" {
		c.Inspect.Host = v
	}
	if v := os.Getenv("POWLEDGER_INSPECT_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		errs = append(errs, envErr("POWLEDGER_INSPECT_PORT", err))
		if err == nil {
			c.Inspect.Port = p
		}
	}

	return errors.Join(errs...)
}

func envErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid %s: %w", name, err)
}

// Validate checks that the configuration can build a chain.
func (c *Config) Validate() error {
	if c.Ledger.Difficulty < 0 || c.Ledger.Difficulty > 2*ledger.DigestSize {
		return fmt.Errorf("ledger.difficulty must be between 0 and %d, got %d", 2*ledger.DigestSize, c.Ledger.Difficulty)
	}
	if _, err := ledger.HasherByName(c.Ledger.Hasher); err != nil {
		return fmt.Errorf("ledger.hasher: %w", err)
	}
	if _, err := ledger.CodecByName(c.Ledger.Codec); err != nil {
		return fmt.Errorf("ledger.codec: %w", err)
	}
	if c.Miner.Workers < 1 {
		return fmt.Errorf("miner.workers must be at least 1, got %d", c.Miner.Workers)
	}
	if c.Miner.Timeout < 0 {
		return fmt.Errorf("miner.timeout must not be negative, got %s", c.Miner.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Inspect.Enabled && (c.Inspect.Port < 0 || c.Inspect.Port > 65535) {
		return fmt.Errorf("inspect.port out of range: %d", c.Inspect.Port)
	}
	return nil
}

// ChainOptions translates the ledger and miner sections into chain options.
func (c *Config) ChainOptions() ([]ledger.Option, error) {
	h, err := ledger.HasherByName(c.Ledger.Hasher)
	if err != nil {
		return nil, err
	}
	codec, err := ledger.CodecByName(c.Ledger.Codec)
	if err != nil {
		return nil, err
	}
	opts := []ledger.Option{
		ledger.WithHasher(h),
		ledger.WithCodec(codec),
		ledger.WithMiner(ledger.Miner{
			Workers:     c.Miner.Workers,
			MaxAttempts: c.Miner.MaxAttempts,
		}),
	}
	if c.Ledger.MineGenesis {
		opts = append(opts, ledger.WithGenesisMining())
	}
	return opts, nil
}

// Addr is the listen address of the inspection server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Inspect.Host, c.Inspect.Port)
}
