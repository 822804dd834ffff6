// Package export writes frames and light curves for people to look at:
// PNG frames with a caption, SVG light curves, and source images read
// back from disk.
package export
