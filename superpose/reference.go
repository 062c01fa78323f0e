package superpose

import (
	"fmt"

	"github.com/katalvlaran/mcalign/alignment"
)

// Reference superimposes every structure onto one reference structure,
// independently for each BlockSet.
type Reference struct {
	ref int
}

var _ Superimposer = (*Reference)(nil)

// NewReference returns a Superimposer anchored at structure ref. The index is
// checked against the alignment on every call.
func NewReference(ref int) *Reference { return &Reference{ref: ref} }

// Index returns the reference structure index.
func (r *Reference) Index() int { return r.ref }

// Superimpose stores in each BlockSet one transform per structure. The
// reference gets the identity; every other structure is fitted on the
// columns (across the BlockSet's Blocks) where both it and the reference
// hold a residue. Structures sharing fewer than two such columns get the
// identity.
//
// Transforms are written only after every fit of the alignment succeeded,
// so an error leaves the previous transforms untouched.
//
// Complexity: O(size·Length()).
func (r *Reference) Superimpose(a *alignment.MultipleAlignment) error {
	var size = a.Size()
	if r.ref < 0 || r.ref >= size {
		return fmt.Errorf("reference %d of %d structures: %w", r.ref, size, ErrReferenceOutOfRange)
	}
	var (
		ens     = a.Ensemble()
		results = make([][]alignment.Transform, len(a.BlockSets))
		fixed   []alignment.Vec3
		moving  []alignment.Vec3
		s, c    int
		rr, rs  int
		err     error
	)
	for i, bs := range a.BlockSets {
		results[i] = make([]alignment.Transform, size)
		for s = 0; s < size; s++ {
			if s == r.ref {
				results[i][s] = alignment.Identity()
				continue
			}
			fixed, moving = fixed[:0], moving[:0]
			for _, b := range bs.Blocks {
				for c = 0; c < b.Len(); c++ {
					rr, rs = b.At(r.ref, c), b.At(s, c)
					if rr == alignment.Gap || rs == alignment.Gap {
						continue
					}
					fixed = append(fixed, ens.Coord(r.ref, rr))
					moving = append(moving, ens.Coord(s, rs))
				}
			}
			results[i][s], err = Fit(fixed, moving)
			if err != nil {
				return fmt.Errorf("blockset %d structure %d: %w", i, s, err)
			}
		}
	}
	for i, bs := range a.BlockSets {
		bs.Transforms = results[i]
	}

	return nil
}
