package mc

import (
	"fmt"
	"math"
)

// Default parameter values.
const (
	DefaultGapOpen        = 20.0
	DefaultGapExtension   = 10.0
	DefaultDistanceCutoff = 5.0 // Å
	DefaultMinBlockLength = 15
	DefaultRestarts       = 1
)

// Parameters configures a Monte Carlo refinement. Zero values of the
// optional fields select the documented automatic behavior.
type Parameters struct {
	// GapOpen is the penalty of the first gap of every gap run (≥ 0).
	GapOpen float64 `json:"gap_open" yaml:"gap_open"`

	// GapExtension is the penalty of each further consecutive gap (≥ 0).
	GapExtension float64 `json:"gap_extension" yaml:"gap_extension"`

	// DistanceCutoff is the distance (Å) at which an aligned position stops
	// contributing positively to the score. 0 ⇒ DefaultDistanceCutoff.
	DistanceCutoff float64 `json:"distance_cutoff" yaml:"distance_cutoff"`

	// RandomSeed seeds the private random stream. 0 ⇒ a fixed default seed.
	RandomSeed int64 `json:"random_seed" yaml:"random_seed"`

	// ConvergenceSteps scales the iteration budget (maxIter = 100·steps).
	// 0 ⇒ shortest structure length × number of structures.
	ConvergenceSteps int `json:"convergence_steps" yaml:"convergence_steps"`

	// MinAlignedStructures is Rmin, the fewest residues a column may keep.
	// 0 ⇒ max(size/3, 2); otherwise clamped to [2, size].
	MinAlignedStructures int `json:"min_aligned_structures" yaml:"min_aligned_structures"`

	// MinBlockLength is Lmin: InsertGap and ShrinkBlock leave Blocks of
	// this length or shorter alone.
	MinBlockLength int `json:"min_block_length" yaml:"min_block_length"`

	// Reference is the index of the structure others are superimposed onto.
	Reference int `json:"reference" yaml:"reference"`

	// Restarts is the number of independent runs of RunRestarts. 0 ⇒ 1.
	Restarts int `json:"restarts" yaml:"restarts"`

	// Concurrency bounds parallel restarts. 0 ⇒ GOMAXPROCS.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// DefaultParameters returns the default configuration.
func DefaultParameters() Parameters {
	return Parameters{
		GapOpen:        DefaultGapOpen,
		GapExtension:   DefaultGapExtension,
		DistanceCutoff: DefaultDistanceCutoff,
		MinBlockLength: DefaultMinBlockLength,
		Restarts:       DefaultRestarts,
	}
}

// Validate checks ranges that do not depend on the alignment. The
// reference index is checked against the ensemble in New.
func (p Parameters) Validate() error {
	if !finite(p.GapOpen) || p.GapOpen < 0 {
		return fmt.Errorf("%w: gap_open %v", ErrInvalidParameters, p.GapOpen)
	}
	if !finite(p.GapExtension) || p.GapExtension < 0 {
		return fmt.Errorf("%w: gap_extension %v", ErrInvalidParameters, p.GapExtension)
	}
	if !finite(p.DistanceCutoff) || p.DistanceCutoff < 0 {
		return fmt.Errorf("%w: distance_cutoff %v", ErrInvalidParameters, p.DistanceCutoff)
	}
	if p.ConvergenceSteps < 0 {
		return fmt.Errorf("%w: convergence_steps %d", ErrInvalidParameters, p.ConvergenceSteps)
	}
	if p.MinAlignedStructures < 0 {
		return fmt.Errorf("%w: min_aligned_structures %d", ErrInvalidParameters, p.MinAlignedStructures)
	}
	if p.MinBlockLength < 0 {
		return fmt.Errorf("%w: min_block_length %d", ErrInvalidParameters, p.MinBlockLength)
	}
	if p.Reference < 0 {
		return fmt.Errorf("%w: reference %d", ErrInvalidParameters, p.Reference)
	}
	if p.Restarts < 0 {
		return fmt.Errorf("%w: restarts %d", ErrInvalidParameters, p.Restarts)
	}
	if p.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency %d", ErrInvalidParameters, p.Concurrency)
	}

	return nil
}

// normalized fills the zero-valued automatic fields that do not depend on
// the alignment.
func (p Parameters) normalized() Parameters {
	if p.DistanceCutoff == 0 {
		p.DistanceCutoff = DefaultDistanceCutoff
	}
	if p.Restarts == 0 {
		p.Restarts = DefaultRestarts
	}

	return p
}

// rmin resolves Rmin for an ensemble of size structures.
func (p Parameters) rmin(size int) int {
	if p.MinAlignedStructures == 0 {
		return max(size/3, 2)
	}

	return min(max(p.MinAlignedStructures, 2), size)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
