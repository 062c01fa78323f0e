// Package mc refines a multiple structure alignment with a Monte Carlo
// search over local edits.
//
// An Optimizer owns a private clone of the seed alignment and a free-residue
// pool (per structure: residues absent from every column). Each iteration it
// draws one of four moves with fixed weights,
//
//	ShiftRow 0.5 · ExpandBlock 0.3 · ShrinkBlock 0.1 · InsertGap 0.1
//
// applies it in place, re-superimposes the structures onto the reference,
// rescores, and accepts or rejects the edit. Improvements (ΔS ≥ 0) are always
// kept; a worse alignment survives with probability
//
//	p = clamp( (C+ΔS)/(iter·C) · (1 − iter/maxIter), 0, 1 ),  C = 10·size
//
// so that bad moves become rarer as the run progresses. Rejected edits are
// rolled back through an edit log that records the inverse of every cell
// write, column insert/remove and pool change, so rollback costs the size of
// the edit rather than the size of the alignment.
//
// After every structural move, columns holding fewer than Rmin residues are
// removed and their residues returned to the pool. InsertGap and ShrinkBlock
// never act on a Block whose length is ≤ Lmin.
//
// Termination: maxIter iterations (default convergenceSteps·100), or
// max(maxIter/50, 1000) consecutive rejections, or cooperative cancellation
// (context or Stop) checked at the top of every iteration.
//
// Determinism: identical seed alignment, Parameters and RandomSeed give an
// identical refined alignment and score trajectory. An Optimizer is not safe
// for concurrent use; RunRestarts runs independent optimizers in parallel,
// each with its own clone, pool and random stream.
//
// Errors:
//   - ErrInvariantViolation    - pool bookkeeping broken (fatal).
//   - ErrMoveAttemptsExhausted - no legal move found in one iteration (wraps
//     ErrInvariantViolation).
//   - ErrInvalidParameters, ErrEmptyAlignment, ErrTooFewStructures, ErrTerminated.
//   - superpose errors are propagated wrapped.
package mc
