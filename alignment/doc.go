// Package alignment provides the mutable data model of a multiple structure
// alignment: an Ensemble of 3D chains and an ordered list of BlockSets, each
// grouping Blocks that share one rigid-body frame.
//
// A Block stores its columns as a dense table of residue indices indexed
// [structure][column]. Gap (−1) marks a structure that contributes no residue
// to a column. Every row of a Block always has the same length; columns are
// inserted and removed through explicit index remapping (InsertColumn,
// RemoveColumn) so that the shape invariant cannot be broken by partial
// splices.
//
// Ownership:
//   - Ensemble coordinates are read-only after construction and may be shared
//     by any number of alignments (and goroutines).
//   - Blocks, BlockSets and MultipleAlignment are NOT safe for concurrent
//     mutation; Clone before handing an alignment to another goroutine.
//
// Errors are package sentinels (see types.go) matched with errors.Is.
package alignment
