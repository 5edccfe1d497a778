package rng

// Scripted is a deterministic Source that replays fixed values. When a list
// is exhausted it keeps returning zero values. IntN results are reduced
// modulo n so scripts stay valid for any range.
type Scripted struct {
	Ints   []int
	Floats []float64

	ints, floats int
}

var _ Source = (*Scripted)(nil)

// IntN implements Source.
func (s *Scripted) IntN(n int) int {
	if s.ints >= len(s.Ints) {
		return 0
	}
	v := s.Ints[s.ints] % n
	s.ints++
	if v < 0 {
		v += n
	}
	return v
}

// Float64 implements Source.
func (s *Scripted) Float64() float64 {
	if s.floats >= len(s.Floats) {
		return 0
	}
	v := s.Floats[s.floats]
	s.floats++
	return v
}
