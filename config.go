package carstan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig collects the sampler settings and prior hyperparameters for one
// run. It round-trips through YAML so a run can be reproduced from a file.
type RunConfig struct {
	Generations int   `yaml:"generations"`
	Burnin      int   `yaml:"burnin"`
	Thin        int   `yaml:"thin"`
	Chains      int   `yaml:"chains"`
	Seed        int64 `yaml:"seed"`
	PrintFreq   int   `yaml:"print_freq"`
	WriteFreq   int   `yaml:"write_freq"`

	BetaStep float64 `yaml:"beta_step"`
	TauStep  float64 `yaml:"tau_step"`
	RhoStep  float64 `yaml:"rho_step"`
	PhiStep  float64 `yaml:"phi_step"`

	BetaSigma float64 `yaml:"beta_sigma"`
	TauShape  float64 `yaml:"tau_shape"`
	TauRate   float64 `yaml:"tau_rate"`
	// RhoUnit restricts rho to (0,1) instead of the full support implied by
	// the adjacency spectrum
	RhoUnit bool `yaml:"rho_unit"`
}

// DefaultRunConfig returns the settings used for the lip cancer style analysis
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Generations: 50000,
		Burnin:      10000,
		Thin:        10,
		Chains:      4,
		Seed:        1234,
		PrintFreq:   5000,
		WriteFreq:   100,
		BetaStep:    0.1,
		TauStep:     0.5,
		RhoStep:     0.2,
		PhiStep:     0.3,
		BetaSigma:   5,
		TauShape:    2,
		TauRate:     2,
		RhoUnit:     true,
	}
}

// MakePriors builds the prior set this configuration describes for the given
// CAR structure
func (cfg *RunConfig) MakePriors(car *CARData) *Priors {
	rhoMin, rhoMax := car.RhoMin, car.RhoMax
	if cfg.RhoUnit {
		rhoMin, rhoMax = 0, 1
	}
	return InitPriors(cfg.BetaSigma, cfg.TauShape, cfg.TauRate, rhoMin, rhoMax)
}

// Validate rejects settings the sampler cannot run with
func (cfg *RunConfig) Validate() error {
	if cfg.Generations <= 0 {
		return fmt.Errorf("carstan: generations must be positive, got %d", cfg.Generations)
	}
	if cfg.Burnin < 0 || cfg.Burnin >= cfg.Generations {
		return fmt.Errorf("carstan: burnin %d out of range for %d generations", cfg.Burnin, cfg.Generations)
	}
	if cfg.Thin <= 0 {
		return fmt.Errorf("carstan: thin must be positive, got %d", cfg.Thin)
	}
	if cfg.Chains <= 0 {
		return fmt.Errorf("carstan: chains must be positive, got %d", cfg.Chains)
	}
	return nil
}

// LoadRunConfig reads a YAML run configuration, filling unset fields from the
// defaults
func LoadRunConfig(path string) (*RunConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (cfg *RunConfig) Save(path string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
