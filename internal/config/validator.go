package config

import (
	"fmt"
	"runtime"

	kernelerrors "github.com/mamertofabian/maidrunner/internal/errors"
)

// Validator checks a loaded Config and fills in smart defaults for the
// fields only set at validation time, in a two-phase load-then-validate
// shape.
type Validator struct{}

// NewValidator builds a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults checks cfg's explicit fields and applies
// CPU-derived defaults to the fields left at their zero value.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProject(&cfg.Project); err != nil {
		return kernelerrors.NewConfigError("project", cfg.Project.Root, err)
	}
	if err := v.validateBehavioural(&cfg.Behavioural); err != nil {
		return kernelerrors.NewConfigError("behavioural", fmt.Sprint(cfg.Behavioural.ImportFollowDepth), err)
	}
	if err := v.validatePerformance(&cfg.Performance); err != nil {
		return kernelerrors.NewConfigError("performance", fmt.Sprint(cfg.Performance.ParallelFileWorkers), err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(p *Project) error {
	if p.Root == "" {
		return fmt.Errorf("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateBehavioural(b *Behavioural) error {
	if b.ImportFollowDepth < 0 {
		return fmt.Errorf("importFollowDepth cannot be negative, got %d", b.ImportFollowDepth)
	}
	return nil
}

func (v *Validator) validatePerformance(p *Performance) error {
	if p.ParallelFileWorkers < 0 {
		return fmt.Errorf("parallelFileWorkers cannot be negative, got %d", p.ParallelFileWorkers)
	}
	return nil
}

// setSmartDefaults fills in a cores-minus-one worker default and the
// remaining zero-valued fields.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Behavioural.ImportFollowDepth == 0 {
		cfg.Behavioural.ImportFollowDepth = 3
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = ".maid-cache"
	}
	if cfg.Cache.Version == "" {
		cfg.Cache.Version = "1"
	}
}

// ValidateConfig is a convenience wrapper for the common case.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
