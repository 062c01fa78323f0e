package mc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding file and default parameters.
const (
	EnvGapOpen          = "MCALIGN_GAP_OPEN"
	EnvGapExtension     = "MCALIGN_GAP_EXTENSION"
	EnvDistanceCutoff   = "MCALIGN_DISTANCE_CUTOFF"
	EnvRandomSeed       = "MCALIGN_RANDOM_SEED"
	EnvConvergenceSteps = "MCALIGN_CONVERGENCE_STEPS"
	EnvMinAligned       = "MCALIGN_MIN_ALIGNED"
	EnvMinBlockLength   = "MCALIGN_MIN_BLOCK_LENGTH"
	EnvReference        = "MCALIGN_REFERENCE"
	EnvRestarts         = "MCALIGN_RESTARTS"
	EnvConcurrency      = "MCALIGN_CONCURRENCY"
)

// LoadParameters resolves parameters with priority env > file > defaults.
//
// path may be empty; a missing file falls back to defaults. The file may be
// YAML or JSON. Malformed files and malformed environment values are errors.
func LoadParameters(path string) (Parameters, error) {
	p := DefaultParameters()

	if path != "" {
		if err := loadParametersFile(path, &p); err != nil {
			return p, fmt.Errorf("load parameters file: %w", err)
		}
	}
	if err := loadParametersEnv(&p); err != nil {
		return p, fmt.Errorf("load parameters env: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}

	return p, nil
}

func loadParametersFile(path string, p *Parameters) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	// YAML first (a superset of JSON), then strict JSON for a better message.
	if err := yaml.Unmarshal(data, p); err != nil {
		if jsonErr := json.Unmarshal(data, p); jsonErr != nil {
			return fmt.Errorf("parse %s (tried YAML and JSON): YAML error: %v, JSON error: %w", path, err, jsonErr)
		}
	}

	return nil
}

func loadParametersEnv(p *Parameters) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{EnvGapOpen, &p.GapOpen},
		{EnvGapExtension, &p.GapExtension},
		{EnvDistanceCutoff, &p.DistanceCutoff},
	}
	for _, f := range floats {
		if v := os.Getenv(f.key); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", f.key, v, err)
			}
			*f.dst = x
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvConvergenceSteps, &p.ConvergenceSteps},
		{EnvMinAligned, &p.MinAlignedStructures},
		{EnvMinBlockLength, &p.MinBlockLength},
		{EnvReference, &p.Reference},
		{EnvRestarts, &p.Restarts},
		{EnvConcurrency, &p.Concurrency},
	}
	for _, f := range ints {
		if v := os.Getenv(f.key); v != "" {
			x, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", f.key, v, err)
			}
			*f.dst = x
		}
	}

	if v := os.Getenv(EnvRandomSeed); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvRandomSeed, v, err)
		}
		p.RandomSeed = x
	}

	return nil
}
