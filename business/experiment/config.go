package experiment

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"patrolBandit/business/bandit"
)

// Config is one sweep: every size in Sizes gets a freshly generated problem
// and every policy in Policies is run on it.
type Config struct {
	Seed           uint64  `yaml:"seed"`
	Sizes          []int   `yaml:"sizes" validate:"required,dive,gt=0"`
	SelectFraction float64 `yaml:"select_fraction" validate:"gt=0,lte=1"`
	Horizon        int     `yaml:"horizon" validate:"gt=0"`
	Trials         int     `yaml:"trials" validate:"gt=0"`

	// ρ_i is drawn as randint[RateLow, RateHigh) / Trials
	RateLow  int `yaml:"rate_low" validate:"gte=0"`
	RateHigh int `yaml:"rate_high" validate:"gtfield=RateLow,ltefield=Trials"`

	ConvergenceThreshold float64  `yaml:"convergence_threshold" validate:"gte=0"`
	NoEarlyStop          bool     `yaml:"no_early_stop"`
	Policies             []string `yaml:"policies" validate:"required"`
	Underreporting       bool     `yaml:"underreporting"`

	// runs the policies of one size concurrently, each on its own stream
	Parallel    bool `yaml:"parallel"`
	Diagnostics bool `yaml:"diagnostics"`
}

const (
	defaultSeed     = 123
	defaultHorizon  = 2000
	defaultRateLow  = 4
	defaultRateHigh = 100
)

func DefaultConfig() Config {
	run := bandit.DefaultRunConfig()
	return Config{
		Seed:                 defaultSeed,
		Sizes:                []int{100, 1000},
		SelectFraction:       0.1,
		Horizon:              defaultHorizon,
		Trials:               1000,
		RateLow:              defaultRateLow,
		RateHigh:             defaultRateHigh,
		ConvergenceThreshold: run.ConvergenceThreshold,
		Policies:             append([]string(nil), bandit.DefaultPolicies...),
	}
}

var validate = validator.New()

// Validate checks the sweep and normalizes policy names in place.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", bandit.ErrInvalidConfig, err)
	}
	for i, name := range c.Policies {
		canonical, err := bandit.ParsePolicy(name)
		if err != nil {
			return err
		}
		c.Policies[i] = canonical
	}
	return nil
}

// LoadConfig reads a YAML sweep file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read sweep config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse sweep config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) runConfig() bandit.RunConfig {
	return bandit.RunConfig{
		Horizon:              c.Horizon,
		ConvergenceThreshold: c.ConvergenceThreshold,
		NoEarlyStop:          c.NoEarlyStop,
		Diagnostics:          c.Diagnostics,
	}
}
