package mc

import (
	"fmt"

	"github.com/katalvlaran/mcalign/alignment"
)

// enforceCoverage removes, per Block, every column holding fewer than Rmin
// residues, highest index first; removed residues return to the pool.
// It reports whether any column was removed.
//
// Complexity: O(size·Length()).
func (o *Optimizer) enforceCoverage() (bool, error) {
	var (
		changed bool
		marked  []int
		c, i    int
	)
	for _, b := range o.blocks {
		marked = marked[:0]
		for c = 0; c < b.Len(); c++ {
			if b.NonGapCount(c) < o.rmin {
				marked = append(marked, c)
			}
		}
		for i = len(marked) - 1; i >= 0; i-- {
			if err := o.dropColumn(b, marked[i]); err != nil {
				return changed, err
			}
			changed = true
		}
	}

	return changed, nil
}

// dropColumn removes column at of b and returns its residues to the pool.
func (o *Optimizer) dropColumn(b *alignment.Block, at int) error {
	values, err := o.removeColumn(b, at)
	if err != nil {
		return err
	}
	for s, r := range values {
		if r == alignment.Gap {
			continue
		}
		if err = o.release(s, r); err != nil {
			return err
		}
	}

	return nil
}

// setCell writes res at (s, c) of b, recording the previous value.
func (o *Optimizer) setCell(b *alignment.Block, s, c, res int) {
	old := b.Set(s, c, res)
	o.edits.push(edit{kind: editSet, block: b, s: s, c: c, value: old})
}

func (o *Optimizer) insertColumn(b *alignment.Block, at int, values []int) error {
	if err := b.InsertColumn(at, values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	o.edits.push(edit{kind: editInsert, block: b, c: at})

	return nil
}

func (o *Optimizer) removeColumn(b *alignment.Block, at int) ([]int, error) {
	values, err := b.RemoveColumn(at)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	o.edits.push(edit{kind: editRemove, block: b, c: at, column: values})

	return values, nil
}

// take moves residue r of structure s out of the pool. It reports false,
// changing nothing, when r is not free.
func (o *Optimizer) take(s, r int) bool {
	if !o.pool.Contains(s, r) {
		return false
	}
	o.pool.remove(s, r)
	o.edits.push(edit{kind: editPoolRemove, s: s, value: r})

	return true
}

// release returns residue r of structure s to the pool.
func (o *Optimizer) release(s, r int) error {
	if !o.pool.add(s, r) {
		return fmt.Errorf("%w: structure %d residue %d released twice", ErrInvariantViolation, s, r)
	}
	o.edits.push(edit{kind: editPoolAdd, s: s, value: r})

	return nil
}
