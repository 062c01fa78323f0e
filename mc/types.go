package mc

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mcalign/alignment"
)

// Sentinel errors (prefix "mc:"); match with errors.Is.
var (
	// ErrInvariantViolation signals broken pool/alignment bookkeeping.
	ErrInvariantViolation = errors.New("mc: invariant violation")

	// ErrMoveAttemptsExhausted is returned when no move could be applied
	// within the per-iteration attempt cap.
	ErrMoveAttemptsExhausted = fmt.Errorf("%w: move attempts exhausted", ErrInvariantViolation)

	// ErrInvalidParameters is returned by Parameters.Validate.
	ErrInvalidParameters = errors.New("mc: invalid parameters")

	// ErrNilAlignment is returned for a nil seed alignment.
	ErrNilAlignment = errors.New("mc: nil alignment")

	// ErrEmptyAlignment is returned when the seed has no Blocks.
	ErrEmptyAlignment = errors.New("mc: alignment has no blocks")

	// ErrTooFewStructures is returned for ensembles of fewer than two structures.
	ErrTooFewStructures = errors.New("mc: need at least two structures")

	// ErrTerminated is returned when Run is called on a finished optimizer.
	ErrTerminated = errors.New("mc: optimizer already terminated")
)

// Move identifies one of the four alignment edits.
type Move int

const (
	ShiftRow Move = iota
	ExpandBlock
	ShrinkBlock
	InsertGap
)

// String implements fmt.Stringer.
func (m Move) String() string {
	switch m {
	case ShiftRow:
		return "shift-row"
	case ExpandBlock:
		return "expand-block"
	case ShrinkBlock:
		return "shrink-block"
	case InsertGap:
		return "insert-gap"
	default:
		return fmt.Sprintf("move(%d)", int(m))
	}
}

// moveBounds are the cumulative upper bounds of the move weights
// {0.5, 0.3, 0.1, 0.1}, in Move order.
var moveBounds = [...]float64{0.5, 0.8, 0.9, 1.0}

// pickMove maps a uniform draw u ∈ [0,1) to a Move.
func pickMove(u float64) Move {
	for i, b := range moveBounds {
		if u < b {
			return Move(i)
		}
	}

	return InsertGap
}

// State is the optimizer lifecycle stage.
type State int

const (
	StateInitializing State = iota
	StateIterating
	StateTerminated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateIterating:
		return "iterating"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reason tells why a run stopped.
type Reason int

const (
	ReasonExhausted Reason = iota // iteration budget used up
	ReasonConverged               // too many consecutive rejections
	ReasonCancelled               // context done or Stop called
)

// String implements fmt.Stringer.
func (r Reason) String() string {
	switch r {
	case ReasonExhausted:
		return "exhausted"
	case ReasonConverged:
		return "converged"
	case ReasonCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Step describes one finished iteration; see WithObserver.
type Step struct {
	Iteration   int
	Move        Move
	Attempts    int     // moves drawn, including failed ones
	Delta       float64 // new score − previous score
	Probability float64 // acceptance probability (1 for ΔS ≥ 0)
	Accepted    bool
	Score       float64 // score after the accept/reject decision
	Length      int     // alignment length after the decision
}

// Result is the outcome of a run.
type Result struct {
	// Alignment is the refined alignment, superimposed, with MC_SCORE,
	// RMSD and AvgTM-score stored.
	Alignment *alignment.MultipleAlignment

	InitialScore float64
	Score        float64
	Iterations   int
	Accepted     int
	Rejected     int
	Reason       Reason
}
