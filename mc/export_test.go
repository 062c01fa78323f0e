package mc

import (
	"math/rand"

	"github.com/katalvlaran/mcalign/alignment"
)

// Test hooks into the unexported move machinery.

func (o *Optimizer) SetRand(r *rand.Rand) { o.rnd = r }
func (o *Optimizer) ShiftRow() (bool, error) { return o.shiftRow() }
func (o *Optimizer) ExpandBlock() (bool, error) { return o.expandBlock() }
func (o *Optimizer) ShrinkBlock() (bool, error) { return o.shrinkBlock() }
func (o *Optimizer) InsertGap() (bool, error) { return o.insertGap() }
func (o *Optimizer) Apply(m Move) (bool, error) { return o.apply(m) }
func (o *Optimizer) EnforceCoverage() (bool, error) { return o.enforceCoverage() }
func (o *Optimizer) LiveBlocks() []*alignment.Block { return o.blocks }
func (o *Optimizer) Acceptance(d float64, i int) float64 { return o.acceptance(d, i) }
func (o *Optimizer) ResetEdits() { o.edits.reset() }
func (o *Optimizer) Undo() error { return o.edits.undo(o.pool) }
func (o *Optimizer) EditCount() int { return o.edits.len() }

var (
	PickMove    = pickMove
	RestartSeed = restartSeed
)

// scripted is a rand.Source replaying fixed Int31 values, so Intn(n)
// returns v%n and Float64 returns a value near 0 for small v.
type scripted struct {
	vals []int64
	i    int
}

func (s *scripted) Int63() int64 {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i]
	s.i++

	return v << 32
}

func (s *scripted) Seed(int64) {}

// Script returns a generator replaying vals.
func Script(vals ...int64) *rand.Rand { return rand.New(&scripted{vals: vals}) }
