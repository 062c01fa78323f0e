package mc_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/mcalign/mc"
)

func TestRestartSeed(t *testing.T) {
	require.Equal(t, int64(7), mc.RestartSeed(7, 0))
	require.Equal(t, mc.RestartSeed(7, 1), mc.RestartSeed(7, 1))
	require.NotEqual(t, mc.RestartSeed(7, 1), mc.RestartSeed(7, 2))
	require.NotEqual(t, mc.RestartSeed(7, 1), mc.RestartSeed(8, 1))
	require.NotEqual(t, mc.RestartSeed(7, 2), mc.RestartSeed(8, 1))
}

func TestRunRestarts(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := mc.DefaultParameters()
	p.MinBlockLength = 10
	p.RandomSeed = 11
	p.Restarts = 4
	p.Concurrency = 2
	a := seeded(t, ensemble(t, 3, 50), diagonal(3, 5, 35, 0, 2, 0))

	results, best, err := mc.RunRestarts(context.Background(), a, p, mc.WithMaxIterations(250))
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		require.Equal(t, i, r.Index)
		require.NotNil(t, r.Alignment)
		require.NotEmpty(t, r.RunID.String())
		require.Len(t, r.History, 3) // iterations 1, 101, 201
		require.LessOrEqual(t, r.Score, results[best].Score)
	}
	require.Equal(t, int64(11), results[0].Seed)
	require.NotEqual(t, results[0].Seed, results[1].Seed)
	require.NotEqual(t, results[0].RunID, results[1].RunID)

	// The first run matches a standalone run with the base seed.
	o, err := mc.New(a, p, mc.WithMaxIterations(250))
	require.NoError(t, err)
	single, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(rows(single.Alignment), rows(results[0].Alignment)))
	require.Equal(t, single.Score, results[0].Score)
}

func TestRunRestartsDeterministic(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := mc.DefaultParameters()
	p.MinBlockLength = 10
	p.Restarts = 3
	a := seeded(t, ensemble(t, 3, 40), diagonal(3, 5, 30, 0, 1, 0))

	first, b1, err := mc.RunRestarts(context.Background(), a, p, mc.WithMaxIterations(200))
	require.NoError(t, err)
	second, b2, err := mc.RunRestarts(context.Background(), a, p, mc.WithMaxIterations(200))
	require.NoError(t, err)
	require.Equal(t, b1, b2)
	for i := range first {
		require.Empty(t, cmp.Diff(rows(first[i].Alignment), rows(second[i].Alignment)))
		require.Equal(t, first[i].Score, second[i].Score)
		require.Equal(t, first[i].Seed, second[i].Seed)
	}
}

func TestRunRestartsPropagatesErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := mc.DefaultParameters()
	p.Restarts = 2
	p.Reference = 5
	a := seeded(t, ensemble(t, 3, 20), diagonal(3, 0, 10))

	_, best, err := mc.RunRestarts(context.Background(), a, p)
	require.ErrorIs(t, err, mc.ErrInvalidParameters)
	require.Equal(t, -1, best)
}
