package mc_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mcalign/alignment"
	"github.com/katalvlaran/mcalign/mc"
)

// chain returns an irregular CA-like trace of n points 3.8 Å apart.
func chain(n int, seed int64) []alignment.Vec3 {
	var (
		r   = rand.New(rand.NewSource(seed))
		out = make([]alignment.Vec3, n)
		dir = alignment.Vec3{X: 1}
	)
	for i := 1; i < n; i++ {
		d := alignment.Vec3{X: dir.X + r.NormFloat64()*0.6, Y: dir.Y + r.NormFloat64()*0.6, Z: dir.Z + r.NormFloat64()*0.6}
		norm := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
		dir = d.Scale(1 / norm)
		out[i] = out[i-1].Add(dir.Scale(3.8))
	}

	return out
}

// moved applies a rotation about z by angle and a translation, plus a
// small deterministic jitter.
func moved(pts []alignment.Vec3, angle float64, shift alignment.Vec3, jitter float64) []alignment.Vec3 {
	var (
		c, s = math.Cos(angle), math.Sin(angle)
		out  = make([]alignment.Vec3, len(pts))
	)
	for i, p := range pts {
		q := alignment.Vec3{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y, Z: p.Z}.Add(shift)
		q.X += jitter * math.Sin(float64(3*i+1))
		q.Y += jitter * math.Cos(float64(5*i+2))
		out[i] = q
	}

	return out
}

// ensemble returns k noisy rigid copies of one chain of n residues.
func ensemble(t testing.TB, k, n int) *alignment.Ensemble {
	t.Helper()
	base := chain(n, 7)
	structures := make([]alignment.Structure, k)
	for i := range structures {
		structures[i] = alignment.Structure{
			Name:   string(rune('A' + i)),
			Coords: moved(base, 0.4*float64(i), alignment.Vec3{X: 5 * float64(i), Y: -2 * float64(i)}, 0.3),
		}
	}
	ens, err := alignment.NewEnsemble(structures...)
	require.NoError(t, err)

	return ens
}

// seeded builds an alignment with one BlockSet per group of blocks.
func seeded(t testing.TB, ens *alignment.Ensemble, blocks ...[][]int) *alignment.MultipleAlignment {
	t.Helper()
	bs := &alignment.BlockSet{}
	for _, rows := range blocks {
		b, err := alignment.NewBlock(rows)
		require.NoError(t, err)
		bs.Blocks = append(bs.Blocks, b)
	}
	a, err := alignment.New(ens, bs)
	require.NoError(t, err)

	return a
}

// seededSets builds an alignment with one BlockSet per entry of sets.
func seededSets(t testing.TB, ens *alignment.Ensemble, sets ...[][][]int) *alignment.MultipleAlignment {
	t.Helper()
	var bss []*alignment.BlockSet
	for _, blocks := range sets {
		bs := &alignment.BlockSet{}
		for _, rows := range blocks {
			b, err := alignment.NewBlock(rows)
			require.NoError(t, err)
			bs.Blocks = append(bs.Blocks, b)
		}
		bss = append(bss, bs)
	}
	a, err := alignment.New(ens, bss...)
	require.NoError(t, err)

	return a
}

// diagonal aligns residue from+i of every structure, plus offsets[s], in
// column i.
func diagonal(size, from, length int, offsets ...int) [][]int {
	rows := make([][]int, size)
	for s := range rows {
		off := 0
		if s < len(offsets) {
			off = offsets[s]
		}
		rows[s] = make([]int, length)
		for i := range rows[s] {
			rows[s][i] = from + i + off
		}
	}

	return rows
}

// requireConsistent checks the bookkeeping invariants of a live optimizer.
func requireConsistent(t *testing.T, o *mc.Optimizer) {
	t.Helper()
	var (
		a       = o.Alignment()
		pool    = o.Pool()
		aligned = a.AlignedResidues()
	)
	require.NoError(t, a.Validate())
	for s, row := range aligned {
		for r, used := range row {
			require.NotEqual(t, used, pool.Contains(s, r), "structure %d residue %d", s, r)
		}
	}
	for _, b := range a.Blocks() {
		for c := 0; c < b.Len(); c++ {
			require.GreaterOrEqual(t, b.NonGapCount(c), o.Rmin(), "column %d", c)
		}
	}
}

// requireOrdered checks that every Block row keeps its residues in
// sequence order.
func requireOrdered(t *testing.T, a *alignment.MultipleAlignment) {
	t.Helper()
	for i, b := range a.Blocks() {
		for s := 0; s < b.Size(); s++ {
			last := -1
			for c, r := range b.Row(s) {
				if r == alignment.Gap {
					continue
				}
				require.Greater(t, r, last, "block %d structure %d column %d", i, s, c)
				last = r
			}
		}
	}
}

// rows returns the Block contents of a for cmp diffs.
func rows(a *alignment.MultipleAlignment) [][][]int {
	var out [][][]int
	for _, b := range a.Blocks() {
		var block [][]int
		for s := 0; s < b.Size(); s++ {
			block = append(block, b.Row(s))
		}
		out = append(out, block)
	}

	return out
}
