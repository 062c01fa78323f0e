// Package score evaluates superimposed multiple structure alignments.
//
// All functions read the per-BlockSet transforms stored in the alignment
// (see package superpose) and never modify Blocks. Columns are enumerated
// in alignment order: BlockSets, then Blocks, then columns.
//
//   - DistanceMatrix - [structures × columns] average residue distances,
//     Sentinel (−1) where a structure has no comparable partner.
//   - MCScore        - Monte Carlo objective: TM-like fit minus gap penalties.
//   - RMSD           - pairwise RMSD over all aligned positions.
//   - AvgTMScore     - mean pairwise TM-score.
//   - CalculateScores stores the standard scores in the alignment.
package score
