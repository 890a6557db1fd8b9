package gen

import "math/rand/v2"

// Simplex is a seeded 2D simplex noise field. Samples fall in [-1, 1].
type Simplex struct {
	perm [512]uint8
}

// gradients are the 2D projections of the 12 cube edge directions.
var gradients = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

const (
	skew2   = 0.36602540378443864676 // (sqrt(3) - 1) / 2
	unskew2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
)

// NewSimplex builds the permutation table for seed.
func NewSimplex(seed int64) *Simplex {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	s := &Simplex{}
	for i, v := range rng.Perm(256) {
		s.perm[i] = uint8(v)
		s.perm[i+256] = uint8(v)
	}
	return s
}

// At samples the field at (x, y).
func (s *Simplex) At(x, y float64) float64 {
	k := (x + y) * skew2
	i := floor(x + k)
	j := floor(y + k)

	u := float64(i+j) * unskew2
	x0 := x - float64(i) + u
	y0 := y - float64(j) + u

	// Middle corner of the triangle containing the point.
	di, dj := 0, 1
	if x0 > y0 {
		di, dj = 1, 0
	}

	corners := [3][4]float64{
		{x0, y0, 0, 0},
		{x0 - float64(di) + unskew2, y0 - float64(dj) + unskew2, float64(di), float64(dj)},
		{x0 - 1 + 2*unskew2, y0 - 1 + 2*unskew2, 1, 1},
	}

	ii, jj := i&255, j&255
	var sum float64
	for _, c := range corners {
		t := 0.5 - c[0]*c[0] - c[1]*c[1]
		if t < 0 {
			continue
		}
		g := gradients[int(s.perm[ii+int(c[2])+int(s.perm[jj+int(c[3])])])%12]
		t *= t
		sum += t * t * (g[0]*c[0] + g[1]*c[1])
	}
	return 70 * sum
}

// Fractal sums octaves of the field, halving the wavelength and scaling the
// amplitude by persistence at each step. The result is normalised to [-1, 1].
func (s *Simplex) Fractal(x, y float64, octaves int, persistence float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for range octaves {
		sum += s.At(x*freq, y*freq) * amp
		norm += amp
		amp *= persistence
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func floor(v float64) int {
	i := int(v)
	if v < float64(i) {
		return i - 1
	}
	return i
}
