package operator

import "math/rand"

// Source produces the random numbers behind every die roll. It is
// injectable so tests and repeatable runs can substitute a deterministic
// or seeded source.
type Source interface {
	// UniformInt returns a uniformly distributed integer in [low, high],
	// inclusive on both ends.
	UniformInt(low, high int) int
	// Choice returns one of the given values, selected uniformly.
	Choice(values []float64) float64
}

type randSource struct {
	r *rand.Rand
}

func (s randSource) UniformInt(low, high int) int {
	return low + s.r.Intn(high-low+1)
}

func (s randSource) Choice(values []float64) float64 {
	return values[s.r.Intn(len(values))]
}

// NewSource returns a Source backed by math/rand with the given seed.
func NewSource(seed int64) Source {
	return randSource{r: rand.New(rand.NewSource(seed))}
}

type globalSource struct{}

func (globalSource) UniformInt(low, high int) int {
	return low + rand.Intn(high-low+1)
}

func (globalSource) Choice(values []float64) float64 {
	return values[rand.Intn(len(values))]
}

// rng is the source used by the dice functions. Evaluation is
// single-threaded, so a package-level source keeps the operator function
// signatures free of plumbing.
var rng Source = globalSource{}

// SetSource installs a source for all subsequent rolls and returns the
// one it replaced, so tests can restore it.
func SetSource(s Source) Source {
	old := rng
	rng = s
	return old
}
