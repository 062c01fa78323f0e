package superpose_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mcalign/alignment"
	"github.com/katalvlaran/mcalign/superpose"
)

const epsFit = 1e-8

// helix returns n points on an α-helix-like curve (non-planar).
func helix(n int) []alignment.Vec3 {
	pts := make([]alignment.Vec3, n)
	for i := range pts {
		a := float64(i) * 100 * math.Pi / 180
		pts[i] = alignment.Vec3{X: 2.3 * math.Cos(a), Y: 2.3 * math.Sin(a), Z: 1.5 * float64(i)}
	}

	return pts
}

// rotZX rotates by a about z, then by b about x, then translates by t.
func rotZX(a, b float64, t alignment.Vec3) alignment.Transform {
	ca, sa, cb, sb := math.Cos(a), math.Sin(a), math.Cos(b), math.Sin(b)
	rz := [3][3]float64{{ca, -sa, 0}, {sa, ca, 0}, {0, 0, 1}}
	rx := [3][3]float64{{1, 0, 0}, {0, cb, -sb}, {0, sb, cb}}
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += rx[i][k] * rz[k][j]
			}
		}
	}

	return alignment.Transform{R: r, T: t}
}

func apply(t alignment.Transform, pts []alignment.Vec3) []alignment.Vec3 {
	out := make([]alignment.Vec3, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}

	return out
}

func TestFitRecoversRigidMotion(t *testing.T) {
	fixed := helix(12)
	moving := apply(rotZX(0.7, -1.1, alignment.Vec3{X: 5, Y: -3, Z: 8}), fixed)

	tr, err := superpose.Fit(fixed, moving)
	require.NoError(t, err)

	rmsd, err := superpose.RMSD(fixed, apply(tr, moving))
	require.NoError(t, err)
	require.Less(t, rmsd, epsFit)

	// rotation must be proper (det = +1)
	r := tr.R
	det := r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
	require.InDelta(t, 1.0, det, 1e-9)
}

func TestFitIsDeterministic(t *testing.T) {
	fixed := helix(9)
	moving := apply(rotZX(2.1, 0.3, alignment.Vec3{Y: 1}), fixed)
	moving[3].X += 0.4 // noise

	a, err := superpose.Fit(fixed, moving)
	require.NoError(t, err)
	b, err := superpose.Fit(fixed, moving)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFitFewPairsIsIdentity(t *testing.T) {
	tr, err := superpose.Fit([]alignment.Vec3{{X: 1}}, []alignment.Vec3{{Y: 4}})
	require.NoError(t, err)
	require.Equal(t, alignment.Identity(), tr)

	tr, err = superpose.Fit(nil, nil)
	require.NoError(t, err)
	require.Equal(t, alignment.Identity(), tr)
}

func TestFitErrors(t *testing.T) {
	_, err := superpose.Fit(helix(3), helix(4))
	require.ErrorIs(t, err, superpose.ErrLengthMismatch)

	bad := helix(3)
	bad[1].Y = math.NaN()
	_, err = superpose.Fit(helix(3), bad)
	require.ErrorIs(t, err, superpose.ErrNonFinite)
}

func TestFitDegenerateGeometry(t *testing.T) {
	line := func(axis alignment.Vec3, n int) []alignment.Vec3 {
		pts := make([]alignment.Vec3, n)
		for i := range pts {
			pts[i] = axis.Scale(float64(i))
		}
		return pts
	}
	same := func(p alignment.Vec3, n int) []alignment.Vec3 {
		pts := make([]alignment.Vec3, n)
		for i := range pts {
			pts[i] = p
		}
		return pts
	}
	cases := []struct {
		name          string
		fixed, moving []alignment.Vec3
	}{
		{"collinear both", line(alignment.Vec3{X: 1}, 4), line(alignment.Vec3{Y: 1}, 4)},
		{"collinear fixed", line(alignment.Vec3{X: 3.8}, 5), helix(5)},
		{"collinear moving", helix(5), line(alignment.Vec3{X: 1, Y: 1, Z: 1}, 5)},
		{"coincident", same(alignment.Vec3{X: 0.1, Y: 0.1, Z: 0.1}, 3), helix(3)},
	}
	for _, tc := range cases {
		_, err := superpose.Fit(tc.fixed, tc.moving)
		require.ErrorIs(t, err, superpose.ErrDegenerate, tc.name)
	}

	// two pairs are always on a line but still fit
	tr, err := superpose.Fit(line(alignment.Vec3{X: 1}, 2), line(alignment.Vec3{Y: 1}, 2))
	require.NoError(t, err)
	rmsd, err := superpose.RMSD(line(alignment.Vec3{X: 1}, 2), apply(tr, line(alignment.Vec3{Y: 1}, 2)))
	require.NoError(t, err)
	require.Less(t, rmsd, epsFit)

	// a slight bend is enough
	bent := line(alignment.Vec3{X: 3.8}, 4)
	bent[2].Y = 0.5
	_, err = superpose.Fit(bent, apply(rotZX(0.3, 0.2, alignment.Vec3{}), bent))
	require.NoError(t, err)
}

func TestReferenceSuperimpose(t *testing.T) {
	base := helix(8)
	ens, err := alignment.NewEnsemble(
		alignment.Structure{Coords: base},
		alignment.Structure{Coords: apply(rotZX(1.0, 0.5, alignment.Vec3{X: 10}), base)},
		alignment.Structure{Coords: apply(rotZX(-0.4, 2.0, alignment.Vec3{Z: -7}), base)},
	)
	require.NoError(t, err)
	rows := make([][]int, 3)
	for s := range rows {
		rows[s] = []int{0, 1, 2, 3, 4, 5, 6, alignment.Gap}
	}
	rows[2][7] = 7
	blk, err := alignment.NewBlock(rows)
	require.NoError(t, err)
	a, err := alignment.New(ens, &alignment.BlockSet{Blocks: []*alignment.Block{blk}})
	require.NoError(t, err)

	require.NoError(t, superpose.NewReference(0).Superimpose(a))
	bs := a.BlockSets[0]
	require.Equal(t, alignment.Identity(), bs.Transforms[0])
	for s := 1; s < 3; s++ {
		for r := 0; r < 8; r++ {
			got := bs.Transforms[s].Apply(ens.Coord(s, r))
			require.InDelta(t, 0, got.Dist(base[r]), 1e-7)
		}
	}
}

func TestReferenceSuperimposePerBlockSet(t *testing.T) {
	var (
		base = helix(12)
		m1   = rotZX(1.0, 0.5, alignment.Vec3{X: 10})
		m2   = rotZX(-0.4, 2.0, alignment.Vec3{Z: -7})
	)
	// structure 1: first half moved by m1, second half by m2
	moved := append(apply(m1, base[:6]), apply(m2, base[6:])...)
	ens, err := alignment.NewEnsemble(alignment.Structure{Coords: base}, alignment.Structure{Coords: moved})
	require.NoError(t, err)

	blocks := func(from, to int) []*alignment.Block {
		var out []*alignment.Block
		for c := from; c < to; c += 3 {
			b, err := alignment.NewBlock([][]int{{c, c + 1, c + 2}, {c, c + 1, c + 2}})
			require.NoError(t, err)
			out = append(out, b)
		}
		return out
	}
	a, err := alignment.New(ens,
		&alignment.BlockSet{Blocks: blocks(0, 6)},
		&alignment.BlockSet{Blocks: blocks(6, 12)},
	)
	require.NoError(t, err)
	require.Len(t, a.BlockSets[0].Blocks, 2)

	require.NoError(t, superpose.NewReference(0).Superimpose(a))
	for i, bs := range a.BlockSets {
		require.Len(t, bs.Transforms, 2)
		require.Equal(t, alignment.Identity(), bs.Transforms[0])
		for r := 6 * i; r < 6*i+6; r++ {
			got := bs.Transforms[1].Apply(moved[r])
			require.InDelta(t, 0, got.Dist(base[r]), 1e-7, "blockset %d residue %d", i, r)
		}
	}
	require.NotEqual(t, a.BlockSets[0].Transforms[1], a.BlockSets[1].Transforms[1])
}

func TestReferenceOutOfRange(t *testing.T) {
	ens, err := alignment.NewEnsemble(alignment.Structure{Coords: helix(3)}, alignment.Structure{Coords: helix(3)})
	require.NoError(t, err)
	blk, err := alignment.NewBlock([][]int{{0, 1, 2}, {0, 1, 2}})
	require.NoError(t, err)
	a, err := alignment.New(ens, &alignment.BlockSet{Blocks: []*alignment.Block{blk}})
	require.NoError(t, err)

	require.ErrorIs(t, superpose.NewReference(2).Superimpose(a), superpose.ErrReferenceOutOfRange)
	require.ErrorIs(t, superpose.NewReference(-1).Superimpose(a), superpose.ErrReferenceOutOfRange)
}
