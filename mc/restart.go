package mc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mcalign/alignment"
)

// RestartResult is the outcome of one independent run of RunRestarts.
type RestartResult struct {
	Result
	Index   int
	RunID   uuid.UUID
	Seed    int64
	History []Sample
}

// RunRestarts runs params.Restarts independent optimizers on seed, at most
// params.Concurrency at a time, and returns every result ordered by restart
// index together with the index of the best one (highest MC score, ties to
// the lowest index).
//
// Run 0 uses params.RandomSeed; run i > 0 uses a seed derived from it, so
// the whole batch is reproducible. Each run owns its clone, pool and random
// stream; only the ensemble coordinates are shared. The first failing run
// cancels the others and its error is returned.
//
// History sinks from opts are replaced by a private buffer per run, exposed
// as RestartResult.History.
func RunRestarts(ctx context.Context, seed *alignment.MultipleAlignment, params Parameters, opts ...Option) ([]RestartResult, int, error) {
	if err := params.Validate(); err != nil {
		return nil, -1, err
	}
	params = params.normalized()
	var (
		o       = gatherOptions(opts...)
		limit   = params.Concurrency
		results = make([]RestartResult, params.Restarts)
	)
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < params.Restarts; i++ {
		i := i
		g.Go(func() error {
			var (
				p     = params
				id    = uuid.New()
				hist  = NewMemoryHistory()
				runOp = append(append([]Option(nil), opts...), WithHistorySink(hist),
					WithLogger(o.logger.With(zap.String("run_id", id.String()), zap.Int("restart", i))))
			)
			p.RandomSeed = restartSeed(params.RandomSeed, i)
			opt, err := New(seed, p, runOp...)
			if err != nil {
				return fmt.Errorf("restart %d: %w", i, err)
			}
			res, err := opt.Run(gctx)
			if err != nil {
				return fmt.Errorf("restart %d: %w", i, err)
			}
			results[i] = RestartResult{Result: res, Index: i, RunID: id, Seed: p.RandomSeed, History: hist.Samples()}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, -1, err
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[best].Score {
			best = i
		}
	}
	o.logger.Info("restarts finished",
		zap.Int("restarts", len(results)),
		zap.Int("best", best),
		zap.String("best_run_id", results[best].RunID.String()),
		zap.Float64("best_score", results[best].Score),
	)

	return results, best, nil
}
