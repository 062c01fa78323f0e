package score

import "errors"

// Score keys stored in alignment score maps.
const (
	MCScoreKey    = "MC_SCORE"
	RMSDKey       = "RMSD"
	AvgTMScoreKey = "AvgTM-score"
)

// Sentinel marks a distance-matrix cell without a defined distance.
const Sentinel = -1.0

const (
	// fitScale is the maximal per-position fit contribution.
	fitScale = 20.0

	// minD0 floors the TM-score distance scale for short chains.
	minD0 = 0.5
)

// ErrOutOfRange indicates a matrix index outside its bounds.
var ErrOutOfRange = errors.New("score: index out of range")
