package mc_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/mcalign/mc"
)

// BenchmarkRun measures a fixed-budget refinement on ensembles of growing
// size. Setup is excluded from the timing.
func BenchmarkRun(b *testing.B) {
	cases := []struct {
		name       string
		size, n    int
		iterations int
	}{
		{"3x60", 3, 60, 1000},
		{"5x120", 5, 120, 1000},
		{"8x200", 8, 200, 1000},
	}

	for _, tc := range cases {
		tc := tc
		b.Run(tc.name, func(b *testing.B) {
			var (
				p    = mc.DefaultParameters()
				seed = seeded(b, ensemble(b, tc.size, tc.n), diagonal(tc.size, 5, tc.n-10))
			)
			p.RandomSeed = 42
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				o, err := mc.New(seed, p, mc.WithMaxIterations(tc.iterations))
				if err != nil {
					b.Fatal(err)
				}
				if _, err = o.Run(context.Background()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
