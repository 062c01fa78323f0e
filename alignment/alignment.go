package alignment

import (
	"fmt"
	"sort"
)

// MultipleAlignment is an ordered list of BlockSets over a shared Ensemble,
// plus a named score map. It is mutated in place by optimizers; Clone it
// to keep a copy.
type MultipleAlignment struct {
	ensemble  *Ensemble
	BlockSets []*BlockSet
	scores    map[string]float64
}

// New builds an alignment over ens. Every BlockSet gets identity transforms
// if none are set. The result is validated.
func New(ens *Ensemble, blockSets ...*BlockSet) (*MultipleAlignment, error) {
	if ens == nil || ens.Size() == 0 {
		return nil, ErrEmptyEnsemble
	}
	a := &MultipleAlignment{ensemble: ens, BlockSets: blockSets, scores: make(map[string]float64)}
	for _, bs := range blockSets {
		if len(bs.Transforms) != ens.Size() {
			bs.Transforms = make([]Transform, ens.Size())
			for i := range bs.Transforms {
				bs.Transforms[i] = Identity()
			}
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Ensemble returns the shared, read-only ensemble.
func (a *MultipleAlignment) Ensemble() *Ensemble { return a.ensemble }

// Size returns the number of structures.
func (a *MultipleAlignment) Size() int { return a.ensemble.Size() }

// Blocks returns all Blocks across BlockSets in order. The slice is fresh;
// the Blocks are live.
func (a *MultipleAlignment) Blocks() []*Block {
	var out []*Block
	for _, bs := range a.BlockSets {
		out = append(out, bs.Blocks...)
	}

	return out
}

// Length returns the total number of columns.
func (a *MultipleAlignment) Length() int {
	var n int
	for _, bs := range a.BlockSets {
		n += bs.Len()
	}

	return n
}

// Score returns a stored score and whether it exists.
func (a *MultipleAlignment) Score(key string) (float64, bool) {
	v, ok := a.scores[key]

	return v, ok
}

// PutScore stores a named score.
func (a *MultipleAlignment) PutScore(key string, v float64) { a.scores[key] = v }

// Scores returns a copy of the score map.
func (a *MultipleAlignment) Scores() map[string]float64 {
	out := make(map[string]float64, len(a.scores))
	for k, v := range a.scores {
		out[k] = v
	}

	return out
}

// ScoreKeys returns score names in lexicographic order.
func (a *MultipleAlignment) ScoreKeys() []string {
	keys := make([]string, 0, len(a.scores))
	for k := range a.scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// ClearScores drops every stored score (scores go stale on mutation).
func (a *MultipleAlignment) ClearScores() { a.scores = make(map[string]float64) }

// Clone deep-copies BlockSets, transforms and scores; the Ensemble is shared.
func (a *MultipleAlignment) Clone() *MultipleAlignment {
	cp := &MultipleAlignment{
		ensemble:  a.ensemble,
		BlockSets: make([]*BlockSet, len(a.BlockSets)),
		scores:    a.Scores(),
	}
	for i, bs := range a.BlockSets {
		cp.BlockSets[i] = bs.Clone()
	}

	return cp
}

// Equal reports whether both alignments share the ensemble and have
// identical Blocks. Transforms and scores are not compared.
func (a *MultipleAlignment) Equal(o *MultipleAlignment) bool {
	if a.ensemble != o.ensemble || len(a.BlockSets) != len(o.BlockSets) {
		return false
	}
	for i := range a.BlockSets {
		if len(a.BlockSets[i].Blocks) != len(o.BlockSets[i].Blocks) {
			return false
		}
		for j := range a.BlockSets[i].Blocks {
			if !a.BlockSets[i].Blocks[j].Equal(o.BlockSets[i].Blocks[j]) {
				return false
			}
		}
	}

	return true
}

// AlignedResidues returns, per structure, a membership table of residues
// that appear in any column.
func (a *MultipleAlignment) AlignedResidues() [][]bool {
	var (
		size = a.Size()
		out  = make([][]bool, size)
		s, c int
		r    int
	)
	for s = 0; s < size; s++ {
		out[s] = make([]bool, a.ensemble.Structure(s).Len())
	}
	for _, b := range a.Blocks() {
		for s = 0; s < size; s++ {
			for c = 0; c < b.Len(); c++ {
				if r = b.At(s, c); r != Gap {
					out[s][r] = true
				}
			}
		}
	}

	return out
}

// Validate checks Block shapes, residue bounds and that no residue is used
// twice within a structure.
//
// Complexity: O(size·Length()).
func (a *MultipleAlignment) Validate() error {
	var (
		size = a.Size()
		seen = make([][]bool, size)
		s, c int
		r    int
	)
	for s = 0; s < size; s++ {
		seen[s] = make([]bool, a.ensemble.Structure(s).Len())
	}
	for i, bs := range a.BlockSets {
		if len(bs.Transforms) != size {
			return fmt.Errorf("blockset %d has %d transforms for %d structures: %w", i, len(bs.Transforms), size, ErrShape)
		}
		for j, b := range bs.Blocks {
			if b.Size() != size {
				return fmt.Errorf("blockset %d block %d has %d rows for %d structures: %w", i, j, b.Size(), size, ErrShape)
			}
			for s = 0; s < size; s++ {
				for c = 0; c < b.Len(); c++ {
					r = b.At(s, c)
					if r == Gap {
						continue
					}
					if r < 0 || r >= len(seen[s]) {
						return fmt.Errorf("structure %d residue %d: %w", s, r, ErrResidueOutOfRange)
					}
					if seen[s][r] {
						return fmt.Errorf("structure %d residue %d: %w", s, r, ErrDuplicateResidue)
					}
					seen[s][r] = true
				}
			}
		}
	}

	return nil
}
