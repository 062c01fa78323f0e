// Package alignio reads and writes multiple structure alignments as YAML or
// JSON documents.
//
// A document lists the structures with their coordinates, then the
// BlockSets, each holding Blocks as per-structure rows of residue indices
// where null marks a gap:
//
//	structures:
//	  - name: 1abc
//	    coords: [[0, 0, 0], [3.8, 0, 0], ...]
//	blocksets:
//	  - blocks:
//	      - rows: [[0, 1, 2], [null, 4, 5]]
//	scores:
//	  MC_SCORE: 812.4
//
// Transforms are optional on input and written on output. Decoded
// alignments are validated.
package alignio
