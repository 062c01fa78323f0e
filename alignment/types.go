package alignment

import (
	"errors"
	"math"
)

// Gap marks a structure without a residue in a column.
const Gap = -1

// Sentinel errors. Callers match them with errors.Is; constructors may wrap
// them with positional context.
var (
	// ErrShape is returned when rows of a Block (or a column slice) do not
	// match the number of structures or the Block length.
	ErrShape = errors.New("alignment: inconsistent shape")

	// ErrColumnOutOfRange indicates a column index outside [0, Len()] for
	// insertion or [0, Len()) for access.
	ErrColumnOutOfRange = errors.New("alignment: column out of range")

	// ErrStructureOutOfRange indicates a structure index outside [0, Size()).
	ErrStructureOutOfRange = errors.New("alignment: structure out of range")

	// ErrResidueOutOfRange indicates a residue index that does not exist in
	// its structure.
	ErrResidueOutOfRange = errors.New("alignment: residue out of range")

	// ErrDuplicateResidue indicates a residue placed in more than one column.
	ErrDuplicateResidue = errors.New("alignment: residue aligned twice")

	// ErrEmptyEnsemble is returned when an alignment is built without structures.
	ErrEmptyEnsemble = errors.New("alignment: empty ensemble")
)

// Vec3 is a point in Cartesian space (Å).
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v − u.
func (v Vec3) Sub(u Vec3) Vec3 { return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z} }

// Add returns v + u.
func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }

// Scale returns v·k.
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dist returns the Euclidean distance between v and u.
func (v Vec3) Dist(u Vec3) float64 { return math.Sqrt(v.Dist2(u)) }

// Dist2 returns the squared Euclidean distance between v and u.
func (v Vec3) Dist2(u Vec3) float64 {
	var dx, dy, dz float64
	dx, dy, dz = v.X-u.X, v.Y-u.Y, v.Z-u.Z

	return dx*dx + dy*dy + dz*dz
}

// IsFinite reports whether all components are finite.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Structure is one chain: an ordered list of residues, one representative
// coordinate each (typically the Cα atom).
type Structure struct {
	Name   string
	Coords []Vec3
}

// Len returns the number of residues.
func (s Structure) Len() int { return len(s.Coords) }

// Ensemble is the fixed, ordered set of structures being aligned.
// It is read-only once built and shared between clones of an alignment.
type Ensemble struct {
	structures []Structure
}

// NewEnsemble wraps the given structures. The slice is copied; coordinates
// are not.
func NewEnsemble(structures ...Structure) (*Ensemble, error) {
	if len(structures) == 0 {
		return nil, ErrEmptyEnsemble
	}
	cp := make([]Structure, len(structures))
	copy(cp, structures)

	return &Ensemble{structures: cp}, nil
}

// Size returns the number of structures.
func (e *Ensemble) Size() int { return len(e.structures) }

// Structure returns the i-th structure.
func (e *Ensemble) Structure(i int) Structure { return e.structures[i] }

// Coord returns the coordinate of residue res in structure s.
func (e *Ensemble) Coord(s, res int) Vec3 { return e.structures[s].Coords[res] }

// Lengths returns the residue count of every structure.
func (e *Ensemble) Lengths() []int {
	out := make([]int, len(e.structures))
	var i int
	for i = range e.structures {
		out[i] = e.structures[i].Len()
	}

	return out
}

// MinLength returns the length of the shortest structure.
func (e *Ensemble) MinLength() int {
	var (
		minLen = math.MaxInt
		i      int
	)
	for i = range e.structures {
		if l := e.structures[i].Len(); l < minLen {
			minLen = l
		}
	}

	return minLen
}

// Transform is a rigid-body motion x ↦ R·x + T.
type Transform struct {
	R [3][3]float64
	T Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{R: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Apply transforms p.
func (t Transform) Apply(p Vec3) Vec3 {
	return Vec3{
		X: t.R[0][0]*p.X + t.R[0][1]*p.Y + t.R[0][2]*p.Z + t.T.X,
		Y: t.R[1][0]*p.X + t.R[1][1]*p.Y + t.R[1][2]*p.Z + t.T.Y,
		Z: t.R[2][0]*p.X + t.R[2][1]*p.Y + t.R[2][2]*p.Z + t.T.Z,
	}
}
