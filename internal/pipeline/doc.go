// Package pipeline drives the orbit, render, lens and photometry stages
// frame by frame and fans parameter sweeps out over goroutines.
package pipeline
