package mc

import (
	"fmt"

	"github.com/katalvlaran/mcalign/alignment"
	"github.com/katalvlaran/mcalign/score"
)

// apply dispatches one move. false with a nil error means the move could
// not apply and the caller draws again.
func (o *Optimizer) apply(m Move) (bool, error) {
	switch m {
	case ShiftRow:
		return o.shiftRow()
	case ExpandBlock:
		return o.expandBlock()
	case ShrinkBlock:
		return o.shrinkBlock()
	case InsertGap:
		return o.insertGap()
	default:
		return false, fmt.Errorf("%w: unknown move %d", ErrInvariantViolation, int(m))
	}
}

// shiftRow moves one structure's residues by one column inside a Block.
//
// On a gap pivot, the gap is filled from the pool with a residue fitting
// between the nearest aligned neighbors. On a residue pivot, the maximal
// run of sequence-consecutive residues around it slides one column; the
// trailing residue returns to the pool and the leading cell takes the next
// residue in sequence if free, otherwise a gap.
func (o *Optimizer) shiftRow() (bool, error) {
	var (
		str = o.rnd.Intn(o.size)
		rl  = o.rnd.Intn(2)
		b   = o.blocks[o.rnd.Intn(len(o.blocks))]
	)
	if b.Len() == 0 {
		return false, nil
	}
	res := o.rnd.Intn(b.Len())

	if b.At(str, res) == alignment.Gap {
		return o.fillGap(b, str, res)
	}

	// Bounds of the consecutive run holding the pivot.
	var lb, rb, cur = res, res, 0
	for lb > 0 {
		cur = b.At(str, lb-1)
		if cur == alignment.Gap || cur+1 != b.At(str, lb) {
			break
		}
		lb--
	}
	for rb < b.Len()-1 {
		cur = b.At(str, rb+1)
		if cur == alignment.Gap || cur != b.At(str, rb)+1 {
			break
		}
		rb++
	}

	var (
		trailing, lead int
		edge, c        int
	)
	if rl == 0 {
		trailing, lead, edge = b.At(str, rb), b.At(str, lb)-1, lb
		for c = rb; c > lb; c-- {
			o.setCell(b, str, c, b.At(str, c-1))
		}
	} else {
		trailing, lead, edge = b.At(str, lb), b.At(str, rb)+1, rb
		for c = lb; c < rb; c++ {
			o.setCell(b, str, c, b.At(str, c+1))
		}
	}
	if err := o.release(str, trailing); err != nil {
		return false, err
	}
	if o.take(str, lead) {
		o.setCell(b, str, edge, lead)
	} else {
		o.setCell(b, str, edge, alignment.Gap)
	}

	if _, err := o.enforceCoverage(); err != nil {
		return false, err
	}

	return true, nil
}

// fillGap places a free residue at the gap (str, res) of b, keeping the
// row ordered.
func (o *Optimizer) fillGap(b *alignment.Block, str, res int) (bool, error) {
	var rr, lr = res, res
	for b.At(str, rr) == alignment.Gap && rr < b.Len()-1 {
		rr++
	}
	for b.At(str, lr) == alignment.Gap && lr > 0 {
		lr--
	}
	var (
		left    = b.At(str, lr)
		right   = b.At(str, rr)
		residue int
	)
	switch {
	case left == alignment.Gap && right == alignment.Gap:
		return false, nil
	case left == alignment.Gap:
		residue = right - 1
		if !o.pool.Contains(str, residue) {
			return false, nil
		}
	case right == alignment.Gap:
		residue = left + 1
		if !o.pool.Contains(str, residue) {
			return false, nil
		}
	default:
		if right <= left+1 {
			return false, nil
		}
		residue = o.rnd.Intn(right-left-1) + left + 1
		if !o.pool.Contains(str, residue) {
			return false, fmt.Errorf("%w: structure %d residue %d between aligned %d and %d is not free",
				ErrInvariantViolation, str, residue, left, right)
		}
	}
	o.take(str, residue)
	o.setCell(b, str, res, residue)

	if _, err := o.enforceCoverage(); err != nil {
		return false, err
	}

	return true, nil
}

// expandBlock adds one column next to the frontier reached from a random
// pivot. The frontier is the last column before one where at least Rmin
// structures jump in sequence, or the Block edge. Each structure extends
// its frontier residue by one if the neighbor is free.
func (o *Optimizer) expandBlock() (bool, error) {
	var (
		rl = o.rnd.Intn(2)
		b  = o.blocks[o.rnd.Intn(len(o.blocks))]
	)
	if b.Len() == 0 {
		return false, nil
	}
	var (
		f      = o.rnd.Intn(b.Len())
		last   = b.Column(f)
		values = make([]int, o.size)
		step   = 1
		at     int
		r, s   int
	)
	if rl == 1 {
		step = -1
	}
	for next := f + step; next >= 0 && next < b.Len(); next = f + step {
		if o.jumps(b, next, last, step) >= o.rmin {
			break
		}
		f = next
		for s = 0; s < o.size; s++ {
			if r = b.At(s, f); r != alignment.Gap {
				last[s] = r
			}
		}
	}

	at = f
	if step > 0 {
		at = f + 1
	}
	for s = 0; s < o.size; s++ {
		values[s] = alignment.Gap
		if r = b.At(s, f); r != alignment.Gap && o.take(s, r+step) {
			values[s] = r + step
		}
	}
	if err := o.insertColumn(b, at, values); err != nil {
		return false, err
	}
	if b.NonGapCount(at) >= o.rmin {
		return true, nil
	}
	if _, err := o.enforceCoverage(); err != nil {
		return false, err
	}

	return false, nil
}

// jumps counts structures whose residue at column c is not the sequence
// neighbor (in direction step) of their last residue.
func (o *Optimizer) jumps(b *alignment.Block, c int, last []int, step int) int {
	var n, r int
	for s := 0; s < o.size; s++ {
		r = b.At(s, c)
		if r == alignment.Gap || last[s] == alignment.Gap {
			continue
		}
		if (step > 0 && r > last[s]+1) || (step < 0 && r < last[s]-1) {
			n++
		}
	}

	return n
}

// shrinkBlock removes the column with a large average distance, chosen by
// a noisy argmax. Blocks of length ≤ Lmin are left alone.
func (o *Optimizer) shrinkBlock() (bool, error) {
	var (
		dist    = score.DistanceMatrix(o.aln)
		maxDist float64
		block   int
		pos     int
		col     int
		sum, d  float64
		n, c, s int
	)
	for bi, b := range o.blocks {
		for c = 0; c < b.Len(); c++ {
			sum, n = 0, 0
			for s = 0; s < o.size; s++ {
				if d = dist.Value(s, col); d != score.Sentinel {
					sum += d
					n++
				}
			}
			if n > 0 && sum/float64(n) > maxDist && o.rnd.Float64() > 0.5 {
				maxDist, block, pos = sum/float64(n), bi, c
			}
			col++
		}
	}

	b := o.blocks[block]
	if b.Len() <= o.lmin {
		return false, nil
	}
	if err := o.dropColumn(b, pos); err != nil {
		return false, err
	}

	return true, nil
}

// insertGap gaps the residue with a large distance to the other structures,
// chosen by a noisy argmax. Blocks of length ≤ Lmin are left alone.
func (o *Optimizer) insertGap() (bool, error) {
	var (
		dist    = score.DistanceMatrix(o.aln)
		maxDist float64
		block   int
		pos     int
		str     int
		col     int
		d       float64
		c, s    int
	)
	for bi, b := range o.blocks {
		for c = 0; c < b.Len(); c++ {
			for s = 0; s < o.size; s++ {
				if d = dist.Value(s, col); d != score.Sentinel && d > maxDist && o.rnd.Float64() > 0.5 {
					maxDist, block, pos, str = d, bi, c, s
				}
			}
			col++
		}
	}

	b := o.blocks[block]
	if b.Len() <= o.lmin {
		return false, nil
	}
	r := b.At(str, pos)
	if r == alignment.Gap {
		return false, nil
	}
	if err := o.release(str, r); err != nil {
		return false, err
	}
	o.setCell(b, str, pos, alignment.Gap)

	if _, err := o.enforceCoverage(); err != nil {
		return false, err
	}

	return true, nil
}
