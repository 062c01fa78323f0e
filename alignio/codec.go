package alignio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mcalign/alignment"
)

// ErrMalformed is returned for documents that parse but cannot describe an
// alignment (wrong coordinate arity, empty structure list, ...).
var ErrMalformed = errors.New("alignio: malformed document")

// Document is the serialized form of a MultipleAlignment.
type Document struct {
	Structures []StructureDoc     `yaml:"structures" json:"structures"`
	BlockSets  []BlockSetDoc      `yaml:"blocksets" json:"blocksets"`
	Scores     map[string]float64 `yaml:"scores,omitempty" json:"scores,omitempty"`
}

// StructureDoc is one chain: a name and one [x, y, z] triple per residue.
type StructureDoc struct {
	Name   string      `yaml:"name" json:"name"`
	Coords [][]float64 `yaml:"coords,flow" json:"coords"`
}

// BlockSetDoc groups Blocks sharing one set of transforms.
type BlockSetDoc struct {
	Blocks     []BlockDoc     `yaml:"blocks" json:"blocks"`
	Transforms []TransformDoc `yaml:"transforms,omitempty" json:"transforms,omitempty"`
}

// BlockDoc holds one row per structure; nil entries are gaps.
type BlockDoc struct {
	Rows [][]*int `yaml:"rows,flow" json:"rows"`
}

// TransformDoc is a rotation (row-major 3×3) followed by a translation.
type TransformDoc struct {
	Rotation    [][]float64 `yaml:"rotation,flow" json:"rotation"`
	Translation []float64   `yaml:"translation,flow" json:"translation"`
}

// Decode reads a YAML (or JSON) document from r and builds the alignment.
func Decode(r io.Reader) (*alignment.MultipleAlignment, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("alignio: decode: %w", err)
	}

	return doc.Alignment()
}

// Encode writes a as a YAML document.
func Encode(w io.Writer, a *alignment.MultipleAlignment) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromAlignment(a)); err != nil {
		return fmt.Errorf("alignio: encode: %w", err)
	}

	return enc.Close()
}

// EncodeJSON writes a as an indented JSON document.
func EncodeJSON(w io.Writer, a *alignment.MultipleAlignment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromAlignment(a)); err != nil {
		return fmt.Errorf("alignio: encode: %w", err)
	}

	return nil
}

// ReadFile decodes the document at path.
func ReadFile(path string) (*alignment.MultipleAlignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("alignio: %w", err)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return a, nil
}

// WriteFile writes a to path, as JSON when the extension is ".json" and
// as YAML otherwise.
func WriteFile(path string, a *alignment.MultipleAlignment) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("alignio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("alignio: %w", cerr)
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return EncodeJSON(f, a)
	}

	return Encode(f, a)
}

// FromAlignment converts a into its document form, transforms and scores
// included.
func FromAlignment(a *alignment.MultipleAlignment) Document {
	var (
		ens = a.Ensemble()
		doc = Document{Structures: make([]StructureDoc, ens.Size())}
	)
	for s := range doc.Structures {
		st := ens.Structure(s)
		coords := make([][]float64, st.Len())
		for i, p := range st.Coords {
			coords[i] = []float64{p.X, p.Y, p.Z}
		}
		doc.Structures[s] = StructureDoc{Name: st.Name, Coords: coords}
	}
	for _, bs := range a.BlockSets {
		bd := BlockSetDoc{}
		for _, b := range bs.Blocks {
			bd.Blocks = append(bd.Blocks, blockDoc(b))
		}
		for _, t := range bs.Transforms {
			bd.Transforms = append(bd.Transforms, TransformDoc{
				Rotation:    [][]float64{t.R[0][:], t.R[1][:], t.R[2][:]},
				Translation: []float64{t.T.X, t.T.Y, t.T.Z},
			})
		}
		doc.BlockSets = append(doc.BlockSets, bd)
	}
	if keys := a.ScoreKeys(); len(keys) > 0 {
		doc.Scores = a.Scores()
	}

	return doc
}

func blockDoc(b *alignment.Block) BlockDoc {
	rows := make([][]*int, b.Size())
	for s := range rows {
		rows[s] = make([]*int, b.Len())
		for c := range rows[s] {
			if r := b.At(s, c); r != alignment.Gap {
				rows[s][c] = &r
			}
		}
	}

	return BlockDoc{Rows: rows}
}

// Alignment builds and validates the alignment the document describes.
func (d Document) Alignment() (*alignment.MultipleAlignment, error) {
	if len(d.Structures) == 0 {
		return nil, fmt.Errorf("%w: no structures", ErrMalformed)
	}
	structures := make([]alignment.Structure, len(d.Structures))
	for s, sd := range d.Structures {
		coords := make([]alignment.Vec3, len(sd.Coords))
		for i, c := range sd.Coords {
			if len(c) != 3 {
				return nil, fmt.Errorf("%w: structure %d residue %d has %d coordinates", ErrMalformed, s, i, len(c))
			}
			coords[i] = alignment.Vec3{X: c[0], Y: c[1], Z: c[2]}
		}
		structures[s] = alignment.Structure{Name: sd.Name, Coords: coords}
	}
	ens, err := alignment.NewEnsemble(structures...)
	if err != nil {
		return nil, fmt.Errorf("alignio: %w", err)
	}

	sets := make([]*alignment.BlockSet, len(d.BlockSets))
	for i, bd := range d.BlockSets {
		bs := &alignment.BlockSet{}
		for j, blk := range bd.Blocks {
			b, err := block(blk, len(structures))
			if err != nil {
				return nil, fmt.Errorf("blockset %d block %d: %w", i, j, err)
			}
			bs.Blocks = append(bs.Blocks, b)
		}
		if len(bd.Transforms) > 0 {
			if bs.Transforms, err = transforms(bd.Transforms, len(structures)); err != nil {
				return nil, fmt.Errorf("blockset %d: %w", i, err)
			}
		}
		sets[i] = bs
	}

	a, err := alignment.New(ens, sets...)
	if err != nil {
		return nil, fmt.Errorf("alignio: %w", err)
	}
	for k, v := range d.Scores {
		a.PutScore(k, v)
	}

	return a, nil
}

func block(bd BlockDoc, size int) (*alignment.Block, error) {
	if len(bd.Rows) != size {
		return nil, fmt.Errorf("%w: %d rows for %d structures", ErrMalformed, len(bd.Rows), size)
	}
	rows := make([][]int, size)
	for s, row := range bd.Rows {
		rows[s] = make([]int, len(row))
		for c, r := range row {
			rows[s][c] = alignment.Gap
			if r != nil {
				rows[s][c] = *r
			}
		}
	}

	return alignment.NewBlock(rows)
}

func transforms(tds []TransformDoc, size int) ([]alignment.Transform, error) {
	if len(tds) != size {
		return nil, fmt.Errorf("%w: %d transforms for %d structures", ErrMalformed, len(tds), size)
	}
	out := make([]alignment.Transform, size)
	for s, td := range tds {
		if len(td.Rotation) != 3 || len(td.Translation) != 3 {
			return nil, fmt.Errorf("%w: transform %d is not 3×3 + 3", ErrMalformed, s)
		}
		for i := range td.Rotation {
			if len(td.Rotation[i]) != 3 {
				return nil, fmt.Errorf("%w: transform %d is not 3×3 + 3", ErrMalformed, s)
			}
			copy(out[s].R[i][:], td.Rotation[i])
		}
		out[s].T = alignment.Vec3{X: td.Translation[0], Y: td.Translation[1], Z: td.Translation[2]}
	}

	return out, nil
}
