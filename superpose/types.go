package superpose

import (
	"errors"

	"github.com/katalvlaran/mcalign/alignment"
)

var (
	// ErrReferenceOutOfRange indicates a reference index outside [0, size).
	ErrReferenceOutOfRange = errors.New("superpose: reference structure out of range")

	// ErrNonFinite indicates NaN or ±Inf coordinates in fitted points.
	ErrNonFinite = errors.New("superpose: NaN or Inf coordinate")

	// ErrDegenerate indicates that no well-defined rotation could be derived:
	// three or more collinear or coincident pairs, or an eigen solve that
	// did not converge.
	ErrDegenerate = errors.New("superpose: degenerate superposition")

	// ErrLengthMismatch indicates paired point sets of different sizes.
	ErrLengthMismatch = errors.New("superpose: point sets differ in length")
)

// Superimposer writes per-structure transforms into every BlockSet of an
// alignment.
type Superimposer interface {
	Superimpose(a *alignment.MultipleAlignment) error
}

const (
	// eigenTol is the relative off-diagonal threshold for Jacobi convergence.
	eigenTol = 1e-12

	// eigenMaxIter caps Jacobi rotations; a 4×4 symmetric matrix converges
	// in a few dozen.
	eigenMaxIter = 200

	// minPairs is the smallest number of paired points that contributes a fit.
	minPairs = 2

	// collinearTol is the largest ratio of the second to the first principal
	// spread at which a point set still counts as a line.
	collinearTol = 1e-10

	// minSpread (Å) is the RMS spread along the second axis below which a
	// set counts as coincident or collinear regardless of its length.
	minSpread = 1e-6
)
