package mc

import "github.com/katalvlaran/mcalign/alignment"

type editKind uint8

const (
	editSet editKind = iota
	editInsert
	editRemove
	editPoolAdd
	editPoolRemove
)

// edit is one reversible mutation of the alignment or the pool.
type edit struct {
	kind   editKind
	block  *alignment.Block
	s, c   int   // structure and column (editSet), column (editInsert/editRemove)
	value  int   // previous cell (editSet) or residue (pool edits)
	column []int // removed values (editRemove)
}

// editLog records the mutations of one iteration so a rejected proposal
// can be rolled back without cloning the alignment.
type editLog struct {
	edits []edit
}

// reset forgets every recorded edit, keeping the backing array.
func (l *editLog) reset() { l.edits = l.edits[:0] }

// len returns the number of recorded edits.
func (l *editLog) len() int { return len(l.edits) }

func (l *editLog) push(e edit) { l.edits = append(l.edits, e) }

// undo reverts every recorded edit in reverse order and resets the log.
// An edit that cannot be reverted means the log and the state diverged.
func (l *editLog) undo(pool *Pool) error {
	var (
		e   edit
		err error
	)
	for i := len(l.edits) - 1; i >= 0; i-- {
		e = l.edits[i]
		switch e.kind {
		case editSet:
			e.block.Set(e.s, e.c, e.value)
		case editInsert:
			_, err = e.block.RemoveColumn(e.c)
		case editRemove:
			err = e.block.InsertColumn(e.c, e.column)
		case editPoolAdd:
			if !pool.remove(e.s, e.value) {
				err = ErrInvariantViolation
			}
		case editPoolRemove:
			if !pool.add(e.s, e.value) {
				err = ErrInvariantViolation
			}
		}
		if err != nil {
			l.reset()
			return err
		}
	}
	l.reset()

	return nil
}
