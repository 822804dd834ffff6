package lens

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravlens/internal/dynamo"
	"github.com/san-kum/gravlens/internal/raster"
)

// ramp gives every pixel a distinct value so any remap is visible.
func ramp(t *testing.T, n int) *raster.Image {
	t.Helper()
	img, err := raster.NewImage(n)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := float64(i*n + j)
			img.Set(i, j, raster.Color{v, v, v})
		}
	}
	return img
}

func centredDisk(t *testing.T, n, radius int) *raster.Image {
	t.Helper()
	img, err := raster.NewImage(n)
	if err != nil {
		t.Fatal(err)
	}
	if err := raster.DrawDisk(img, radius, n/2, n/2, raster.Red, raster.Overwrite); err != nil {
		t.Fatal(err)
	}
	return img
}

func brightness(img *raster.Image) float64 {
	sum := 0.0
	for _, v := range img.Pix {
		sum += v
	}
	return sum
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"point lens", Params{Domain: 2}, true},
		{"cored elliptical", Params{CoreRadius: 0.2, Ellipticity: 0.99, Domain: 4}, true},
		{"eps one", Params{Ellipticity: 1, Domain: 2}, false},
		{"eps negative", Params{Ellipticity: -0.1, Domain: 2}, false},
		{"negative core", Params{CoreRadius: -1, Domain: 2}, false},
		{"zero domain", Params{}, false},
		{"nan domain", Params{Domain: math.NaN()}, false},
		{"bad edge", Params{Domain: 2, Edge: EdgePolicy(7)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, dynamo.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestDeflect(t *testing.T) {
	p := Params{Domain: 2}
	s1, s2 := p.Deflect(0, 0)
	if s1 != 0 || s2 != 0 {
		t.Errorf("centre should not move, got (%g, %g)", s1, s2)
	}

	// a point lens pulls every ray by one unit toward the centre
	s1, s2 = p.Deflect(3, 4)
	if math.Abs(s1-2.4) > 1e-12 || math.Abs(s2-3.2) > 1e-12 {
		t.Errorf("Deflect(3, 4) = (%g, %g), want (2.4, 3.2)", s1, s2)
	}

	// ellipticity weakens axis 0 and strengthens axis 1
	q := Params{Ellipticity: 0.5, Domain: 2}
	a1, _ := q.Deflect(1, 0)
	_, b2 := q.Deflect(0, 1)
	if !(1-a1 < 1-b2) {
		t.Errorf("axis 0 shift %g should be smaller than axis 1 shift %g", 1-a1, 1-b2)
	}
}

func TestTransform_PointLensDeflects(t *testing.T) {
	const n = 40
	p := Params{Domain: 2}

	idx, err := SourceIndices(n, p)
	if err != nil {
		t.Fatal(err)
	}
	for k, s := range idx {
		if s == k {
			t.Fatalf("pixel %d samples itself", k)
		}
	}

	src := ramp(t, n)
	out, err := Transform(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if out.Equal(src) {
		t.Fatal("point lens returned the input unchanged")
	}
}

func TestTransform_Deterministic(t *testing.T) {
	src := ramp(t, 64)
	p := Params{CoreRadius: 0.15, Ellipticity: 0.3, Domain: 6}

	a, err := Transform(src, p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Transform(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("two transforms of the same input differ")
	}
}

func TestTransform_DoesNotMutateSource(t *testing.T) {
	src := ramp(t, 32)
	orig := src.Clone()
	if _, err := Transform(src, Params{Domain: 2}); err != nil {
		t.Fatal(err)
	}
	if !src.Equal(orig) {
		t.Fatal("source image was modified")
	}
}

func TestTransform_IsotropicWithoutEllipticity(t *testing.T) {
	const n = 101
	src := centredDisk(t, n, 20)
	if !src.Rotate90().Equal(src) {
		t.Fatal("test source is not rotation symmetric")
	}

	out, err := Transform(src, Params{CoreRadius: 0.2, Domain: 2})
	if err != nil {
		t.Fatal(err)
	}

	rot := out.Rotate90()
	mismatched := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if out.At(i, j) != rot.At(i, j) {
				mismatched++
			}
		}
	}
	if mismatched > n*n/200 {
		t.Errorf("%d of %d pixels change under a quarter turn", mismatched, n*n)
	}
	if b, r := brightness(out), brightness(rot); math.Abs(b-r) > 1e-9*b {
		t.Errorf("brightness %g vs rotated %g", b, r)
	}
}

func TestTransform_EllipticityBreaksSymmetry(t *testing.T) {
	const n = 101
	src := centredDisk(t, n, 20)

	round, err := Transform(src, Params{CoreRadius: 0.2, Domain: 2})
	if err != nil {
		t.Fatal(err)
	}
	flat, err := Transform(src, Params{CoreRadius: 0.2, Ellipticity: 0.5, Domain: 2})
	if err != nil {
		t.Fatal(err)
	}
	if round.Equal(flat) {
		t.Fatal("ellipticity had no effect")
	}
	if flat.Rotate90().Equal(flat) {
		t.Fatal("elliptical lens image should not be quarter-turn symmetric")
	}
}

func TestTransform_RejectsNonSquare(t *testing.T) {
	src, err := raster.NewRect(10, 12)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Transform(src, Params{Domain: 2}); !errors.Is(err, dynamo.ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestTransform_RejectsBadParams(t *testing.T) {
	src := ramp(t, 8)
	_, err := Transform(src, Params{Ellipticity: 1, Domain: 2})
	if !errors.Is(err, dynamo.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestCoords(t *testing.T) {
	for _, tc := range []struct {
		n   int
		dom float64
	}{{101, 1}, {200, 6}, {400, 4}, {600, 4}} {
		r := coords(tc.n, tc.dom)
		pw := 2 * tc.dom / float64(tc.n)
		for i := range r {
			literal := 2*tc.dom*float64(i)/float64(tc.n) - tc.dom + pw/2
			if math.Abs(r[i]-literal) > 1e-12*tc.dom {
				t.Fatalf("n=%d: r[%d] = %g, want %g", tc.n, i, r[i], literal)
			}
			if r[tc.n-1-i] != -r[i] {
				t.Fatalf("n=%d: r[%d] = %g is not -r[%d]", tc.n, tc.n-1-i, r[tc.n-1-i], i)
			}
		}
	}
}

func TestTransform_OddGridCentre(t *testing.T) {
	const n = 11
	idx, err := SourceIndices(n, Params{Domain: 1})
	if err != nil {
		t.Fatal(err)
	}
	c := (n/2)*n + n/2
	if idx[c] != c {
		t.Errorf("centre pixel samples %d, want itself (%d)", idx[c], c)
	}
}

func TestEdgePolicy_Resolve(t *testing.T) {
	tests := []struct {
		edge EdgePolicy
		k    int
		want int
	}{
		{EdgeWrap, -1, 9},
		{EdgeWrap, 10, 0},
		{EdgeWrap, -23, 7},
		{EdgeClamp, -3, 0},
		{EdgeClamp, 12, 9},
		{EdgeBlack, -1, -1},
		{EdgeBlack, 10, -1},
		{EdgeBlack, 4, 4},
	}

	for _, tt := range tests {
		if got := tt.edge.resolve(tt.k, 10); got != tt.want {
			t.Errorf("%s.resolve(%d) = %d, want %d", tt.edge, tt.k, got, tt.want)
		}
	}
}

func TestParseEdgePolicy(t *testing.T) {
	for _, e := range []EdgePolicy{EdgeWrap, EdgeClamp, EdgeBlack} {
		got, err := ParseEdgePolicy(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEdgePolicy(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseEdgePolicy("mirror"); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestTransform_EdgeBlackLeavesHoles(t *testing.T) {
	const n = 40
	src, _ := raster.NewImage(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			src.Set(i, j, raster.White)
		}
	}

	// with a small domain the central rays land outside the source plane
	p := Params{Domain: 0.5, Edge: EdgeBlack}
	out, err := Transform(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if brightness(out) >= brightness(src) {
		t.Fatal("expected black pixels under EdgeBlack")
	}

	p.Edge = EdgeWrap
	out, err = Transform(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(src) {
		t.Fatal("uniform source should stay uniform under EdgeWrap")
	}
}

func TestMagnificationMap(t *testing.T) {
	const n = 60
	m, err := MagnificationMap(n, Params{Domain: 2})
	if err != nil {
		t.Fatal(err)
	}
	if m.Total() != n*n {
		t.Errorf("total = %d, want %d", m.Total(), n*n)
	}
	if m.Max() < 2 {
		t.Errorf("point lens should magnify some source pixel, max = %d", m.Max())
	}

	b, err := MagnificationMap(n, Params{Domain: 0.5, Edge: EdgeBlack})
	if err != nil {
		t.Fatal(err)
	}
	if b.Total() >= n*n {
		t.Errorf("EdgeBlack total = %d, want < %d", b.Total(), n*n)
	}

	img := m.Image()
	peak := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			peak = math.Max(peak, img.At(i, j)[0])
		}
	}
	if peak != 255 {
		t.Errorf("brightest map pixel = %g, want 255", peak)
	}
}

func TestMapping_RejectsMismatchedGrid(t *testing.T) {
	m, err := NewMapping(16, Params{Domain: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Apply(ramp(t, 12)); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}

	src := ramp(t, 16)
	a, err := m.Apply(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Transform(src, Params{Domain: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("Mapping.Apply and Transform disagree")
	}
}
