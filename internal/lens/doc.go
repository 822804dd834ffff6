// Package lens remaps images through an elliptical, cored deflector
// centred on the grid.
//
// For every output pixel the cell-centre image-plane coordinate (r1, r2)
// is pushed through the lens equation
//
//	D  = sqrt(rc^2 + (1-eps)*r1^2 + (1+eps)*r2^2)
//	s1 = r1 - (1-eps)*r1/D
//	s2 = r2 - (1+eps)*r2/D
//
// and the source pixel containing (s1, s2) is copied. r1 runs along rows
// (axis 0) and r2 along columns (axis 1), the same orientation the
// renderer uses. Source indices outside the grid are resolved by one
// [EdgePolicy] for the whole call.
package lens
