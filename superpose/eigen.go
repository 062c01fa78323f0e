package superpose

import "math"

// sym4 is a dense symmetric 4×4 matrix.
type sym4 [4][4]float64

// jacobi4 computes eigenvalues and eigenvectors (columns of Q) of a
// symmetric 4×4 matrix with classical Jacobi rotations: each step zeroes the
// largest off-diagonal entry.
//
// Returns ok=false if the off-diagonal mass does not fall under tol·scale
// within maxIter rotations.
//
// Complexity: O(n²) per pivot search, O(n) per rotation; n = 4.
func jacobi4(m sym4, tol float64, maxIter int) (eigs [4]float64, Q [4][4]float64, ok bool) {
	// Stage 1: work copy A and Q = I
	var (
		A    = m
		i, j int
	)
	for i = 0; i < 4; i++ {
		Q[i][i] = 1
	}

	// absolute threshold relative to the matrix scale
	var scale float64
	for i = 0; i < 4; i++ {
		for j = 0; j < 4; j++ {
			scale += A[i][j] * A[i][j]
		}
	}
	scale = math.Sqrt(scale)
	threshold := tol * scale
	if threshold == 0 {
		threshold = math.SmallestNonzeroFloat64
	}

	// Stage 2: rotations
	var (
		iter           int
		p, q           int
		maxOff         float64
		theta, t, c, s float64
		app, aqq, apq  float64
		aip, aiq       float64
		converged      bool
	)
	for iter = 0; iter < maxIter; iter++ {
		maxOff = 0
		for i = 0; i < 4; i++ {
			for j = i + 1; j < 4; j++ {
				if math.Abs(A[i][j]) > maxOff {
					maxOff = math.Abs(A[i][j])
					p, q = i, j
				}
			}
		}
		if maxOff <= threshold {
			converged = true
			break
		}

		app, aqq, apq = A[p][p], A[q][q], A[p][q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < 4; i++ {
			if i == p || i == q {
				continue
			}
			aip, aiq = A[i][p], A[i][q]
			A[i][p] = c*aip - s*aiq
			A[p][i] = A[i][p]
			A[i][q] = s*aip + c*aiq
			A[q][i] = A[i][q]
		}
		A[p][p] = c*c*app - 2*c*s*apq + s*s*aqq
		A[q][q] = s*s*app + 2*c*s*apq + c*c*aqq
		A[p][q], A[q][p] = 0, 0

		for i = 0; i < 4; i++ {
			aip, aiq = Q[i][p], Q[i][q]
			Q[i][p] = c*aip - s*aiq
			Q[i][q] = s*aip + c*aiq
		}
	}
	if !converged {
		// one last check: the final rotation may have finished the job
		maxOff = 0
		for i = 0; i < 4; i++ {
			for j = i + 1; j < 4; j++ {
				maxOff = math.Max(maxOff, math.Abs(A[i][j]))
			}
		}
		if maxOff > threshold {
			return eigs, Q, false
		}
	}

	// Stage 3: eigenvalues on the diagonal
	for i = 0; i < 4; i++ {
		eigs[i] = A[i][i]
	}

	return eigs, Q, true
}
