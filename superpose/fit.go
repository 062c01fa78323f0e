package superpose

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/mcalign/alignment"
)

// Fit returns the rigid transform that maps moving onto fixed with minimal
// RMSD. Points are paired by index.
//
// With fewer than two pairs there is nothing to fit and the identity is
// returned (no error). Three or more pairs must span at least a plane on
// both sides: coincident or collinear sets leave the spin about the line
// free and yield ErrDegenerate.
//
// Complexity: O(n) to accumulate the covariance, O(1) for the 4×4 solve.
func Fit(fixed, moving []alignment.Vec3) (alignment.Transform, error) {
	if len(fixed) != len(moving) {
		return alignment.Transform{}, fmt.Errorf("fit %d vs %d points: %w", len(fixed), len(moving), ErrLengthMismatch)
	}
	var (
		n = len(fixed)
		i int
	)
	if n < minPairs {
		return alignment.Identity(), nil
	}
	for i = 0; i < n; i++ {
		if !fixed[i].IsFinite() || !moving[i].IsFinite() {
			return alignment.Transform{}, fmt.Errorf("pair %d: %w", i, ErrNonFinite)
		}
	}

	// Stage 1: centroids
	cf, cm := centroid(fixed), centroid(moving)

	// Stage 2: cross-covariance S = Σ (m−cm)(f−cf)ᵀ
	var (
		sxx, sxy, sxz float64
		syx, syy, syz float64
		szx, szy, szz float64
		x, y          alignment.Vec3
		spreadM       [3][3]float64
		spreadF       [3][3]float64
	)
	for i = 0; i < n; i++ {
		x = moving[i].Sub(cm)
		y = fixed[i].Sub(cf)
		addOuter(&spreadM, x)
		addOuter(&spreadF, y)
		sxx += x.X * y.X
		sxy += x.X * y.Y
		sxz += x.X * y.Z
		syx += x.Y * y.X
		syy += x.Y * y.Y
		syz += x.Y * y.Z
		szx += x.Z * y.X
		szy += x.Z * y.Y
		szz += x.Z * y.Z
	}

	if n > minPairs {
		for _, sc := range [...]*[3][3]float64{&spreadF, &spreadM} {
			flat, err := collinear(sc, n)
			if err != nil {
				return alignment.Transform{}, err
			}
			if flat {
				return alignment.Transform{}, fmt.Errorf("%d collinear or coincident points: %w", n, ErrDegenerate)
			}
		}
	}

	// Stage 3: Horn's key matrix and its dominant eigenvector
	key := sym4{
		{sxx + syy + szz, syz - szy, szx - sxz, sxy - syx},
		{syz - szy, sxx - syy - szz, sxy + syx, szx + sxz},
		{szx - sxz, sxy + syx, -sxx + syy - szz, syz + szy},
		{sxy - syx, szx + sxz, syz + szy, -sxx - syy + szz},
	}
	eigs, Q, ok := jacobi4(key, eigenTol, eigenMaxIter)
	if !ok {
		return alignment.Transform{}, fmt.Errorf("jacobi did not converge: %w", ErrDegenerate)
	}
	best := 0
	for i = 1; i < 4; i++ {
		if eigs[i] > eigs[best] {
			best = i
		}
	}
	q0, q1, q2, q3 := Q[0][best], Q[1][best], Q[2][best], Q[3][best]
	norm := math.Sqrt(q0*q0 + q1*q1 + q2*q2 + q3*q3)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return alignment.Transform{}, fmt.Errorf("quaternion norm %v: %w", norm, ErrDegenerate)
	}
	q0, q1, q2, q3 = q0/norm, q1/norm, q2/norm, q3/norm

	// Stage 4: rotation from the unit quaternion, translation from centroids
	var t alignment.Transform
	t.R = [3][3]float64{
		{q0*q0 + q1*q1 - q2*q2 - q3*q3, 2 * (q1*q2 - q0*q3), 2 * (q1*q3 + q0*q2)},
		{2 * (q1*q2 + q0*q3), q0*q0 - q1*q1 + q2*q2 - q3*q3, 2 * (q2*q3 - q0*q1)},
		{2 * (q1*q3 - q0*q2), 2 * (q2*q3 + q0*q1), q0*q0 - q1*q1 - q2*q2 + q3*q3},
	}
	rc := alignment.Transform{R: t.R}.Apply(cm)
	t.T = cf.Sub(rc)

	return t, nil
}

// RMSD returns the root-mean-square deviation between paired points.
// Empty input yields 0.
func RMSD(a, b []alignment.Vec3) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range a {
		sum += a[i].Dist2(b[i])
	}

	return math.Sqrt(sum / float64(len(a))), nil
}

// collinear reports whether a centred scatter matrix has less than two
// significant principal axes. The second eigenvalue is compared with
// collinearTol times the first, with an absolute floor of minSpread² per
// point for sets that are coincident up to rounding.
func collinear(sc *[3][3]float64, n int) (bool, error) {
	var m sym4
	for i := 0; i < 3; i++ {
		copy(m[i][:3], sc[i][:])
	}
	eigs, _, ok := jacobi4(m, eigenTol, eigenMaxIter)
	if !ok {
		return false, fmt.Errorf("jacobi did not converge on point spread: %w", ErrDegenerate)
	}
	// padding adds a zero eigenvalue, which sorts below the PSD spectrum
	sort.Float64s(eigs[:])
	floor := math.Max(collinearTol*eigs[3], float64(n)*minSpread*minSpread)

	return eigs[2] <= floor, nil
}

// addOuter accumulates v·vᵀ into m.
func addOuter(m *[3][3]float64, v alignment.Vec3) {
	c := [3]float64{v.X, v.Y, v.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += c[i] * c[j]
		}
	}
}

func centroid(pts []alignment.Vec3) alignment.Vec3 {
	var c alignment.Vec3
	for _, p := range pts {
		c = c.Add(p)
	}

	return c.Scale(1 / float64(len(pts)))
}
