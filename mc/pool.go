package mc

import "github.com/katalvlaran/mcalign/alignment"

// Pool is the per-structure set of residues not present in any column.
// Invariant: for every structure, Pool ∪ aligned residues = all residues
// and the two sets are disjoint.
type Pool struct {
	free [][]bool // [structure][residue]
	n    []int    // free residues per structure
}

// newPool builds the pool as the complement of the residues aligned in a.
//
// Complexity: O(size·(Length()+maxResidues)).
func newPool(a *alignment.MultipleAlignment) *Pool {
	var (
		aligned = a.AlignedResidues()
		p       = &Pool{free: make([][]bool, len(aligned)), n: make([]int, len(aligned))}
	)
	for s, row := range aligned {
		p.free[s] = make([]bool, len(row))
		for r, used := range row {
			if !used {
				p.free[s][r] = true
				p.n[s]++
			}
		}
	}

	return p
}

// Contains reports whether residue r of structure s is free. Out-of-range
// structures and residues are never free.
func (p *Pool) Contains(s, r int) bool {
	if s < 0 || s >= len(p.free) || r < 0 || r >= len(p.free[s]) {
		return false
	}

	return p.free[s][r]
}

// Len returns the number of free residues of structure s.
func (p *Pool) Len(s int) int { return p.n[s] }

// Size returns the number of structures.
func (p *Pool) Size() int { return len(p.free) }

// Residues returns the free residues of structure s in increasing order.
func (p *Pool) Residues(s int) []int {
	out := make([]int, 0, p.n[s])
	for r, ok := range p.free[s] {
		if ok {
			out = append(out, r)
		}
	}

	return out
}

// Clone returns a deep copy.
func (p *Pool) Clone() *Pool {
	cp := &Pool{free: make([][]bool, len(p.free)), n: make([]int, len(p.n))}
	for s := range p.free {
		cp.free[s] = append([]bool(nil), p.free[s]...)
	}
	copy(cp.n, p.n)

	return cp
}

// add marks r free; it reports false when r was free already.
func (p *Pool) add(s, r int) bool {
	if p.free[s][r] {
		return false
	}
	p.free[s][r] = true
	p.n[s]++

	return true
}

// remove marks r aligned; it reports false when r was not free.
func (p *Pool) remove(s, r int) bool {
	if !p.free[s][r] {
		return false
	}
	p.free[s][r] = false
	p.n[s]--

	return true
}
