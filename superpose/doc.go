// Package superpose computes least-squares rigid-body superpositions for
// multiple structure alignments.
//
// The core primitive, Fit, finds the rotation and translation minimizing
// the RMSD between two paired point sets using Horn's closed-form quaternion
// solution: the optimal rotation is the eigenvector of the largest
// eigenvalue of a 4×4 symmetric key matrix built from the cross-covariance
// of the centered sets. Eigenvectors are obtained with cyclic Jacobi
// rotations, so the result is deterministic for identical input.
//
// Reference superimposes every structure of every BlockSet onto one
// reference structure using only the columns where both are non-gap.
//
// Errors:
//   - ErrReferenceOutOfRange - reference index outside the ensemble.
//   - ErrNonFinite           - NaN/Inf coordinates among the fitted points.
//   - ErrDegenerate          - the eigen solver did not converge or produced
//     a non-finite rotation.
package superpose
