// Package mcalign refines multiple structure alignments by Monte Carlo
// optimization.
//
// A multiple structure alignment relates residues of several 3D chains
// (an Ensemble) through columns grouped into Blocks. The optimizer edits
// the columns with four local moves, re-superimposes the chains after each
// edit and keeps or rolls back the edit under a cooling acceptance rule,
// until the iteration budget is spent or the score stops improving.
//
// Subpackages, leaf first:
//
//	alignment     Ensemble, Block, BlockSet and MultipleAlignment data model
//	superpose     rigid-body least-squares superposition onto a reference
//	score         distance matrix, MC score, RMSD and TM-score
//	mc            the Monte Carlo optimizer, parameters, history, restarts
//	alignio       YAML/JSON alignment documents
//	cmd/mcrefine  command-line front end
//
// Quick start:
//
//	seed, _ := alignio.ReadFile("seed.yaml")
//	opt, err := mc.New(seed, mc.DefaultParameters(), mc.WithLogger(logger))
//	if err != nil { ... }
//	res, err := opt.Run(ctx)
//	// res.Alignment carries MC_SCORE, RMSD and AvgTM-score.
//
// Runs are deterministic for a given seed. Independent restarts run in
// parallel with mc.RunRestarts.
package mcalign
