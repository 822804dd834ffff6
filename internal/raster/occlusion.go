package raster

// Silhouette is a body's footprint on the projected axis plus its
// coordinate along the line of sight (larger is farther).
type Silhouette struct {
	Index  int
	Radius int
	Depth  float64
}

// Overlaps reports whether the pixel intervals [Index-Radius, Index+Radius]
// of a and b intersect.
func Overlaps(a, b Silhouette) bool {
	d := a.Index - b.Index
	if d < 0 {
		d = -d
	}
	return d < a.Radius+b.Radius
}

// Hidden reports whether a is behind b where their silhouettes overlap.
// Equal depths never hide. Visible narrows this: a hidden body is only
// skipped when b is at least as large as a.
func Hidden(a, b Silhouette) bool {
	return Overlaps(a, b) && a.Depth > b.Depth
}

// Visible decides, once per frame, which silhouettes get painted. A body
// is dropped when an overlapping nearer body at least as large covers it;
// a smaller nearer body is instead painted over it.
func Visible(s []Silhouette) []bool {
	out := make([]bool, len(s))
	for i := range s {
		out[i] = true
		for j := range s {
			if i != j && s[j].Radius >= s[i].Radius && Hidden(s[i], s[j]) {
				out[i] = false
				break
			}
		}
	}
	return out
}
