package mc_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/mcalign/mc"
)

func TestMemoryHistoryCSV(t *testing.T) {
	h := mc.NewMemoryHistory()
	h.Append(mc.Sample{Iteration: 1, Length: 40, RMSD: 1.5, Score: -12.25})
	h.Append(mc.Sample{Iteration: 101, Length: 38, RMSD: 0.75, Score: 300})

	var buf bytes.Buffer
	require.NoError(t, h.WriteCSV(&buf))
	require.Equal(t, "Step,Length,RMSD,Score\n1,40,1.5,-12.25\n101,38,0.75,300\n", buf.String())
}

func TestCSVFileFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	f := mc.NewCSVFile(path)
	f.Append(mc.Sample{Iteration: 1, Length: 3, RMSD: 0, Score: 1})
	require.NoError(t, f.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Step,Length,RMSD,Score\n1,3,0,1\n", string(data))
}

func TestHistoryFlushFailureDoesNotFailRun(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sink := mc.NewCSVFile(filepath.Join(t.TempDir(), "missing", "dir", "history.csv"))

	p := mc.DefaultParameters()
	p.MinBlockLength = 10
	a := seeded(t, ensemble(t, 3, 40), diagonal(3, 5, 30))
	o, err := mc.New(a, p, mc.WithMaxIterations(150), mc.WithHistorySink(sink), mc.WithLogger(zap.New(core)))
	require.NoError(t, err)

	res, err := o.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Alignment)
	require.Len(t, sink.Samples(), 2)
	require.Equal(t, 1, logs.FilterMessage("history flush failed").Len())
}
