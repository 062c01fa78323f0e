package score

import (
	"math"

	"github.com/katalvlaran/mcalign/alignment"
)

// frame holds transformed coordinates per structure and alignment column.
type frame struct {
	size, length int
	pts          [][]alignment.Vec3 // [structure][column]
	present      [][]bool           // false where the structure has a gap
}

// project applies the BlockSet transforms to every aligned residue.
//
// Complexity: O(size·Length()).
func project(a *alignment.MultipleAlignment) *frame {
	var (
		size   = a.Size()
		length = a.Length()
		ens    = a.Ensemble()
		f      = &frame{size: size, length: length, pts: make([][]alignment.Vec3, size), present: make([][]bool, size)}
		s, c   int
		col    int
		r      int
	)
	for s = 0; s < size; s++ {
		f.pts[s] = make([]alignment.Vec3, length)
		f.present[s] = make([]bool, length)
	}
	for _, bs := range a.BlockSets {
		for _, b := range bs.Blocks {
			for c = 0; c < b.Len(); c++ {
				for s = 0; s < size; s++ {
					if r = b.At(s, c); r != alignment.Gap {
						f.pts[s][col] = bs.Transforms[s].Apply(ens.Coord(s, r))
						f.present[s][col] = true
					}
				}
				col++
			}
		}
	}

	return f
}

// distances computes the average residue distance matrix of f.
func (f *frame) distances() *Matrix {
	var (
		m       = NewMatrix(f.size, f.length, Sentinel)
		sum     float64
		s1, s2  int
		c, n    int
		nonGaps int
	)
	for c = 0; c < f.length; c++ {
		nonGaps = 0
		for s1 = 0; s1 < f.size; s1++ {
			if f.present[s1][c] {
				nonGaps++
			}
		}
		if nonGaps < 2 {
			continue
		}
		for s1 = 0; s1 < f.size; s1++ {
			if !f.present[s1][c] {
				continue
			}
			sum, n = 0, 0
			for s2 = 0; s2 < f.size; s2++ {
				if s2 == s1 || !f.present[s2][c] {
					continue
				}
				sum += f.pts[s1][c].Dist(f.pts[s2][c])
				n++
			}
			m.set(s1, c, sum/float64(n))
		}
	}

	return m
}

// DistanceMatrix returns the [structures × columns] matrix of average
// distances from each structure's residue to the other residues of the same
// column. Cells are Sentinel where the structure is a gap or fewer than two
// structures are aligned in the column.
//
// Complexity: O(size²·Length()).
func DistanceMatrix(a *alignment.MultipleAlignment) *Matrix {
	return project(a).distances()
}

// D0 returns the TM-score distance scale for chains of length n, floored at
// 0.5 Å for short chains.
func D0(n int) float64 {
	d0 := 1.24*math.Cbrt(float64(n)-15) - 1.8

	return math.Max(d0, minD0)
}

// MCScore returns the Monte Carlo objective (higher is better):
//
//	Σ_cells [ 20/(1+d²/d0²) − A ]  −  gapOpen·opens − gapExtend·extensions
//
// where cells are the non-Sentinel entries of the distance matrix, d0 = D0 of
// the shortest structure and A = 20/(1+dCutoff²/d0²), so positions closer than
// dCutoff raise the score. Each run of consecutive gaps in a structure's row
// costs gapOpen for its first gap and gapExtend for every further one.
//
// Complexity: O(size²·Length()).
func MCScore(a *alignment.MultipleAlignment, gapOpen, gapExtend, dCutoff float64) float64 {
	var (
		f    = project(a)
		dist = f.distances()
		d0   = D0(a.Ensemble().MinLength())
		d02  = d0 * d0
		A    = fitScale / (1 + dCutoff*dCutoff/d02)
		fit  float64
		d    float64
		s, c int
	)
	var opens, extends int
	for s = 0; s < f.size; s++ {
		gapped := false
		for c = 0; c < f.length; c++ {
			if !f.present[s][c] {
				if gapped {
					extends++
				} else {
					opens++
					gapped = true
				}
				continue
			}
			gapped = false
			if d = dist.Value(s, c); d != Sentinel {
				fit += fitScale/(1+d*d/d02) - A
			}
		}
	}

	return fit - gapOpen*float64(opens) - gapExtend*float64(extends)
}

// RMSD returns the root-mean-square distance over every pair of aligned
// positions sharing a column; 0 when no column has two residues.
//
// Complexity: O(size²·Length()).
func RMSD(a *alignment.MultipleAlignment) float64 {
	var (
		f         = project(a)
		sum       float64
		n         int
		s1, s2, c int
	)
	for c = 0; c < f.length; c++ {
		for s1 = 0; s1 < f.size; s1++ {
			if !f.present[s1][c] {
				continue
			}
			for s2 = s1 + 1; s2 < f.size; s2++ {
				if f.present[s2][c] {
					sum += f.pts[s1][c].Dist2(f.pts[s2][c])
					n++
				}
			}
		}
	}
	if n == 0 {
		return 0
	}

	return math.Sqrt(sum / float64(n))
}

// AvgTMScore returns the mean TM-score over all structure pairs. Each pair is
// scored on its shared columns and normalized by the shorter chain.
// A single-structure alignment scores 0.
//
// Complexity: O(size²·Length()).
func AvgTMScore(a *alignment.MultipleAlignment) float64 {
	var (
		f         = project(a)
		ens       = a.Ensemble()
		total     float64
		pairs     int
		s1, s2, c int
	)
	for s1 = 0; s1 < f.size; s1++ {
		for s2 = s1 + 1; s2 < f.size; s2++ {
			minLen := ens.Structure(s1).Len()
			if l := ens.Structure(s2).Len(); l < minLen {
				minLen = l
			}
			pairs++
			if minLen == 0 {
				continue
			}
			d0 := D0(minLen)
			var tm float64
			for c = 0; c < f.length; c++ {
				if f.present[s1][c] && f.present[s2][c] {
					d := f.pts[s1][c].Dist(f.pts[s2][c])
					tm += 1 / (1 + d*d/(d0*d0))
				}
			}
			total += tm / float64(minLen)
		}
	}
	if pairs == 0 {
		return 0
	}

	return total / float64(pairs)
}

// CalculateScores stores RMSD and AvgTM-score in the alignment.
func CalculateScores(a *alignment.MultipleAlignment) {
	a.PutScore(RMSDKey, RMSD(a))
	a.PutScore(AvgTMScoreKey, AvgTMScore(a))
}
