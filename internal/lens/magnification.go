package lens

import "github.com/san-kum/gravlens/internal/raster"

// Map counts how many output pixels sample each source pixel. A count
// above one means that part of the source is magnified.
type Map struct {
	N      int
	Counts []int
}

func MagnificationMap(n int, p Params) (*Map, error) {
	mp, err := NewMapping(n, p)
	if err != nil {
		return nil, err
	}

	m := &Map{N: n, Counts: make([]int, n*n)}
	for _, s := range mp.src {
		if s >= 0 {
			m.Counts[s]++
		}
	}
	return m, nil
}

func (m *Map) At(i, j int) int { return m.Counts[i*m.N+j] }

func (m *Map) Max() int {
	best := 0
	for _, c := range m.Counts {
		if c > best {
			best = c
		}
	}
	return best
}

func (m *Map) Total() int {
	sum := 0
	for _, c := range m.Counts {
		sum += c
	}
	return sum
}

// Image renders the counts as grey levels scaled so the largest count is
// full white.
func (m *Map) Image() *raster.Image {
	img, _ := raster.NewImage(m.N)
	peak := float64(m.Max())
	if peak == 0 {
		return img
	}
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			v := 255 * float64(m.At(i, j)) / peak
			img.Set(i, j, raster.Color{v, v, v})
		}
	}
	return img
}
