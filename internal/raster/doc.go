// Package raster maps physical coordinates onto a fixed square pixel grid
// and paints filled disks into unclamped RGB buffers.
//
// Coordinates follow one rule everywhere, including the lens inverse map:
//
//	index = floor((x + halfWidth) / (2*halfWidth/n))
//
// Pixels outside [0, n) are clipped when drawing, never an error.
package raster
