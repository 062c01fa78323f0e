package alignment

import "fmt"

// Block is a run of alignment columns sharing one topology.
//
// Storage is a single flat slice in row-major order (one row per structure),
// the usual dense-matrix layout: cells[s*stride + c]. Rows are kept
// the same length by construction; there is no way to splice one row alone.
type Block struct {
	size   int   // number of structures (rows)
	length int   // number of columns in use
	cells  []int // row-major; len == size*stride
	stride int   // allocated columns per row (≥ length)
}

// NewBlock builds a Block from per-structure rows. All rows must share one
// length. Gap entries must be Gap (−1).
func NewBlock(rows [][]int) (*Block, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyEnsemble
	}
	var (
		n = len(rows[0])
		s int
	)
	for s = range rows {
		if len(rows[s]) != n {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", s, len(rows[s]), n, ErrShape)
		}
	}
	b := newBlock(len(rows), n)
	for s = range rows {
		copy(b.cells[s*b.stride:s*b.stride+n], rows[s])
	}
	b.length = n

	return b, nil
}

func newBlock(size, capacity int) *Block {
	if capacity < 4 {
		capacity = 4
	}

	return &Block{size: size, stride: capacity, cells: make([]int, size*capacity)}
}

// Size returns the number of structures.
func (b *Block) Size() int { return b.size }

// Len returns the number of columns.
func (b *Block) Len() int { return b.length }

// At returns the residue of structure s at column c, or Gap.
// Indices are not bounds-checked beyond the slice itself.
func (b *Block) At(s, c int) int { return b.cells[s*b.stride+c] }

// Set stores residue res (or Gap) for structure s at column c and returns
// the previous value.
func (b *Block) Set(s, c, res int) int {
	var i = s*b.stride + c
	old := b.cells[i]
	b.cells[i] = res

	return old
}

// Row returns a copy of the residues of structure s.
func (b *Block) Row(s int) []int {
	out := make([]int, b.length)
	copy(out, b.cells[s*b.stride:s*b.stride+b.length])

	return out
}

// Column returns a copy of column c (one entry per structure).
func (b *Block) Column(c int) []int {
	out := make([]int, b.size)
	var s int
	for s = 0; s < b.size; s++ {
		out[s] = b.cells[s*b.stride+c]
	}

	return out
}

// NonGapCount returns how many structures have a residue at column c.
func (b *Block) NonGapCount(c int) int {
	var count, s int
	for s = 0; s < b.size; s++ {
		if b.cells[s*b.stride+c] != Gap {
			count++
		}
	}

	return count
}

// InsertColumn inserts values (one per structure) so that they become
// column at; columns at..Len()-1 move one position right.
//
// Complexity: O(size·(Len()−at)) plus amortized growth.
func (b *Block) InsertColumn(at int, values []int) error {
	if at < 0 || at > b.length {
		return fmt.Errorf("insert at %d (len %d): %w", at, b.length, ErrColumnOutOfRange)
	}
	if len(values) != b.size {
		return fmt.Errorf("insert %d values into %d rows: %w", len(values), b.size, ErrShape)
	}
	if b.length == b.stride {
		b.grow()
	}
	var (
		s    int
		base int
	)
	for s = 0; s < b.size; s++ {
		base = s * b.stride
		copy(b.cells[base+at+1:base+b.length+1], b.cells[base+at:base+b.length])
		b.cells[base+at] = values[s]
	}
	b.length++

	return nil
}

// RemoveColumn deletes column at and returns its former values; columns
// to the right move one position left.
func (b *Block) RemoveColumn(at int) ([]int, error) {
	if at < 0 || at >= b.length {
		return nil, fmt.Errorf("remove %d (len %d): %w", at, b.length, ErrColumnOutOfRange)
	}
	var (
		out  = make([]int, b.size)
		s    int
		base int
	)
	for s = 0; s < b.size; s++ {
		base = s * b.stride
		out[s] = b.cells[base+at]
		copy(b.cells[base+at:base+b.length-1], b.cells[base+at+1:base+b.length])
	}
	b.length--

	return out, nil
}

// grow doubles the per-row capacity, re-striding every row.
func (b *Block) grow() {
	var (
		stride = b.stride * 2
		cells  = make([]int, b.size*stride)
		s      int
	)
	for s = 0; s < b.size; s++ {
		copy(cells[s*stride:s*stride+b.length], b.cells[s*b.stride:s*b.stride+b.length])
	}
	b.cells, b.stride = cells, stride
}

// Clone returns a deep copy of the Block.
func (b *Block) Clone() *Block {
	cp := &Block{size: b.size, length: b.length, stride: b.stride, cells: make([]int, len(b.cells))}
	copy(cp.cells, b.cells)

	return cp
}

// Equal reports whether both Blocks have identical shape and content.
func (b *Block) Equal(o *Block) bool {
	if b.size != o.size || b.length != o.length {
		return false
	}
	var s, c int
	for s = 0; s < b.size; s++ {
		for c = 0; c < b.length; c++ {
			if b.At(s, c) != o.At(s, c) {
				return false
			}
		}
	}

	return true
}

// BlockSet groups Blocks superimposed with one rigid transform per structure.
type BlockSet struct {
	Blocks     []*Block
	Transforms []Transform // one per structure; set by the superimposer
}

// Len returns the total number of columns in the BlockSet.
func (bs *BlockSet) Len() int {
	var n int
	for _, b := range bs.Blocks {
		n += b.Len()
	}

	return n
}

// Clone returns a deep copy of the BlockSet.
func (bs *BlockSet) Clone() *BlockSet {
	cp := &BlockSet{
		Blocks:     make([]*Block, len(bs.Blocks)),
		Transforms: make([]Transform, len(bs.Transforms)),
	}
	for i, b := range bs.Blocks {
		cp.Blocks[i] = b.Clone()
	}
	copy(cp.Transforms, bs.Transforms)

	return cp
}
