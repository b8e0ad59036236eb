package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Escrow        EscrowConfig  `yaml:"escrow"`
}

type EscrowConfig struct {
	// CustodyAccount holds escrowed funds between initiation and
	// settlement. It is also the spender clients approve allowances for.
	CustodyAccount string `yaml:"custody_account"`
	// DeployerAccount becomes the registry and ledger owner on first boot.
	DeployerAccount string `yaml:"deployer_account"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("WORKHIVE_ADDR", ":8080"),
		JWTSecret:     getEnv("WORKHIVE_JWT_SECRET", insecureJWTSecret),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("WORKHIVE_DATABASE_PATH", "workhive.db"),
		TokenDuration: tokenDuration,
		Escrow: EscrowConfig{
			CustodyAccount:  getEnv("WORKHIVE_ESCROW_ACCOUNT", "escrow-custody"),
			DeployerAccount: getEnv("WORKHIVE_DEPLOYER_ACCOUNT", ""),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach a real deployment.
// The default JWT secret is only tolerated when WORKHIVE_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Escrow.CustodyAccount == "" {
		return fmt.Errorf("escrow custody_account is required")
	}
	if c.JWTSecret == "" || c.JWTSecret == insecureJWTSecret {
		if os.Getenv("WORKHIVE_ENV") != "development" {
			return fmt.Errorf("jwt_secret must be set to a strong value outside development")
		}
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
