package mc

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/katalvlaran/mcalign/alignment"
	"github.com/katalvlaran/mcalign/score"
	"github.com/katalvlaran/mcalign/superpose"
)

const (
	// historyEvery is the sampling period of the history sink.
	historyEvery = 100

	// minConvergence is the floor of the consecutive-rejection limit.
	minConvergence = 1000
)

// Optimizer refines one MultipleAlignment by Monte Carlo moves.
//
// An Optimizer is single-use and not safe for concurrent use, except for
// Stop, which may be called from any goroutine.
type Optimizer struct {
	params Parameters
	opts   options
	log    *zap.Logger
	sup    *superpose.Reference
	rnd    *rand.Rand

	aln    *alignment.MultipleAlignment // private clone of the seed
	blocks []*alignment.Block           // live Blocks of aln, flattened
	pool   *Pool
	edits  editLog

	size             int
	rmin, lmin       int
	convergenceSteps int
	maxIter          int
	c                float64

	initialScore float64
	mcScore      float64
	state        State
	stop         atomic.Bool
}

// New prepares an optimizer for seed. The seed is cloned and never
// mutated. Columns of the clone holding fewer than Rmin residues are
// removed, and the clone is superimposed and scored.
func New(seed *alignment.MultipleAlignment, params Parameters, opts ...Option) (*Optimizer, error) {
	if seed == nil {
		return nil, ErrNilAlignment
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params = params.normalized()
	if seed.Size() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewStructures, seed.Size())
	}
	if params.Reference >= seed.Size() {
		return nil, fmt.Errorf("%w: reference %d of %d structures", ErrInvalidParameters, params.Reference, seed.Size())
	}
	if len(seed.Blocks()) == 0 {
		return nil, ErrEmptyAlignment
	}
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("seed alignment: %w", err)
	}

	o := &Optimizer{
		params: params,
		opts:   gatherOptions(opts...),
		sup:    superpose.NewReference(params.Reference),
		rnd:    rngFromSeed(params.RandomSeed),
		aln:    seed.Clone(),
		size:   seed.Size(),
		lmin:   params.MinBlockLength,
		state:  StateInitializing,
	}
	o.log = o.opts.logger
	o.blocks = o.aln.Blocks()
	o.rmin = params.rmin(o.size)
	o.c = 10 * float64(o.size)
	o.pool = newPool(o.aln)

	if _, err := o.enforceCoverage(); err != nil {
		return nil, err
	}
	o.edits.reset()

	o.convergenceSteps = params.ConvergenceSteps
	if o.convergenceSteps == 0 {
		o.convergenceSteps = o.aln.Ensemble().MinLength() * o.size
	}
	o.maxIter = o.convergenceSteps * 100
	if o.opts.maxIterSet {
		o.maxIter = o.opts.maxIter
	}

	o.aln.ClearScores()
	if err := o.sup.Superimpose(o.aln); err != nil {
		return nil, fmt.Errorf("superimpose seed: %w", err)
	}
	o.mcScore = o.score()
	o.initialScore = o.mcScore

	o.log.Debug("optimizer initialized",
		zap.Int("structures", o.size),
		zap.Int("blocks", len(o.blocks)),
		zap.Int("length", o.aln.Length()),
		zap.Int("rmin", o.rmin),
		zap.Int("lmin", o.lmin),
		zap.Int("max_iterations", o.maxIter),
		zap.Float64("score", o.mcScore),
	)

	return o, nil
}

// Run iterates until the budget is used up, the run converges, ctx is done
// or Stop is called. A cancelled run is not an error: the Result holds the
// last accepted alignment with Reason set to ReasonCancelled.
//
// Run may be called once.
func (o *Optimizer) Run(ctx context.Context) (Result, error) {
	if o.state != StateInitializing {
		return Result{}, ErrTerminated
	}
	o.state = StateIterating
	defer func() { o.state = StateTerminated }()

	var (
		stepsToConverge = max(o.maxIter/50, minConvergence)
		res             = Result{InitialScore: o.initialScore}
		conv            int
		iter            = 1
	)
	o.log.Info("monte carlo refinement started",
		zap.Int("max_iterations", o.maxIter),
		zap.Int("steps_to_converge", stepsToConverge),
		zap.Float64("score", o.mcScore),
	)

	for {
		if iter >= o.maxIter {
			res.Reason = ReasonExhausted
			break
		}
		if conv >= stepsToConverge {
			res.Reason = ReasonConverged
			break
		}
		if ctx.Err() != nil || o.stop.Load() {
			res.Reason = ReasonCancelled
			break
		}

		step, err := o.iterate(iter)
		if err != nil {
			o.log.Error("monte carlo refinement failed", zap.Int("iteration", iter), zap.Error(err))
			return Result{}, fmt.Errorf("iteration %d: %w", iter, err)
		}
		if step.Accepted {
			res.Accepted++
		} else {
			res.Rejected++
		}
		if step.Delta < 0 && !step.Accepted {
			conv++
		} else {
			conv = 0
		}
		if o.opts.observer != nil {
			o.opts.observer(step)
		}
		if o.opts.history != nil && iter%historyEvery == 1 {
			o.opts.history.Append(Sample{
				Iteration: iter,
				Length:    o.aln.Length(),
				RMSD:      score.RMSD(o.aln),
				Score:     o.mcScore,
			})
		}
		iter++
	}
	res.Iterations = iter - 1

	if err := o.finalize(); err != nil {
		return Result{}, err
	}
	res.Alignment = o.aln.Clone()
	res.Score = o.mcScore

	o.log.Info("monte carlo refinement finished",
		zap.Stringer("reason", res.Reason),
		zap.Int("iterations", res.Iterations),
		zap.Int("accepted", res.Accepted),
		zap.Int("rejected", res.Rejected),
		zap.Float64("initial_score", res.InitialScore),
		zap.Float64("score", res.Score),
		zap.Int("length", res.Alignment.Length()),
	)

	return res, nil
}

// iterate performs one proposal and its accept/reject decision.
func (o *Optimizer) iterate(iter int) (Step, error) {
	var (
		step       = Step{Iteration: iter, Probability: 1, Accepted: true}
		transforms = o.saveTransforms()
		lastScore  = o.mcScore
		moved      bool
		err        error
	)
	o.edits.reset()

	for !moved {
		if step.Attempts >= o.opts.maxMoveAttempts {
			return step, fmt.Errorf("%w: %d draws", ErrMoveAttemptsExhausted, step.Attempts)
		}
		step.Move = pickMove(o.rnd.Float64())
		step.Attempts++
		if moved, err = o.apply(step.Move); err != nil {
			return step, fmt.Errorf("%s: %w", step.Move, err)
		}
	}

	if err = o.sup.Superimpose(o.aln); err != nil {
		return step, fmt.Errorf("superimpose: %w", err)
	}
	o.mcScore = o.score()
	step.Delta = o.mcScore - lastScore

	if step.Delta < 0 {
		step.Probability = o.acceptance(step.Delta, iter)
		if o.rnd.Float64() > step.Probability {
			if err = o.edits.undo(o.pool); err != nil {
				return step, fmt.Errorf("rollback: %w", err)
			}
			o.restoreTransforms(transforms)
			o.mcScore = lastScore
			step.Accepted = false
		}
	}
	step.Score = o.mcScore
	step.Length = o.aln.Length()

	if ce := o.log.Check(zap.DebugLevel, "monte carlo step"); ce != nil {
		ce.Write(
			zap.Int("iteration", iter),
			zap.Stringer("move", step.Move),
			zap.Int("attempts", step.Attempts),
			zap.Float64("delta", step.Delta),
			zap.Float64("probability", step.Probability),
			zap.Bool("accepted", step.Accepted),
			zap.Float64("score", step.Score),
		)
	}

	return step, nil
}

// acceptance returns the probability of keeping a proposal that lowered
// the score by |delta| at iteration iter:
//
//	p = ((C+ΔS)/(iter·C)) · (1 − iter/maxIter), clamped to [0, 1].
func (o *Optimizer) acceptance(delta float64, iter int) float64 {
	p := ((o.c + delta) / (float64(iter) * o.c)) * (1 - float64(iter)/float64(o.maxIter))

	return math.Min(math.Max(p, 0), 1)
}

func (o *Optimizer) score() float64 {
	return score.MCScore(o.aln, o.params.GapOpen, o.params.GapExtension, o.params.DistanceCutoff)
}

// finalize superimposes once more, stores the standard scores and flushes
// the history sink.
func (o *Optimizer) finalize() error {
	if err := o.sup.Superimpose(o.aln); err != nil {
		return fmt.Errorf("final superimpose: %w", err)
	}
	score.CalculateScores(o.aln)
	o.aln.PutScore(score.MCScoreKey, o.mcScore)

	if f, ok := o.opts.history.(Flusher); ok {
		if err := f.Flush(); err != nil {
			o.log.Warn("history flush failed", zap.Error(err))
		}
	}

	return nil
}

// Superimpose replaces the transform slices wholesale, so keeping the old
// slice headers is enough to restore them.
func (o *Optimizer) saveTransforms() [][]alignment.Transform {
	out := make([][]alignment.Transform, len(o.aln.BlockSets))
	for i, bs := range o.aln.BlockSets {
		out[i] = bs.Transforms
	}

	return out
}

func (o *Optimizer) restoreTransforms(saved [][]alignment.Transform) {
	for i, bs := range o.aln.BlockSets {
		bs.Transforms = saved[i]
	}
}

// Stop asks a running Run to finish at the next iteration boundary.
// Safe for concurrent use.
func (o *Optimizer) Stop() { o.stop.Store(true) }

// State returns the lifecycle stage.
func (o *Optimizer) State() State { return o.state }

// Score returns the current MC score.
func (o *Optimizer) Score() float64 { return o.mcScore }

// Alignment returns a copy of the working alignment.
func (o *Optimizer) Alignment() *alignment.MultipleAlignment { return o.aln.Clone() }

// Pool returns a copy of the free pool.
func (o *Optimizer) Pool() *Pool { return o.pool.Clone() }

// Rmin returns the minimum number of residues per column.
func (o *Optimizer) Rmin() int { return o.rmin }

// Lmin returns the minimum Block length for gap insertion and shrinking.
func (o *Optimizer) Lmin() int { return o.lmin }

// MaxIterations returns the iteration budget.
func (o *Optimizer) MaxIterations() int { return o.maxIter }
