package render

import (
	"errors"
	"fmt"
)

// ErrInvalidSampleCount is returned for unsupported sampler sizes.
var ErrInvalidSampleCount = errors.New("render: invalid sample count")

// MaxSamplePower bounds NewUniformSampler (a 128x128 grid).
const MaxSamplePower = 8

// Sample is one weighted sub-pixel sample in buffer-pixel space. Pixel
// (x, y) covers [x-0.5, x+0.5] × [y-0.5, y+0.5].
type Sample struct {
	X, Y   float32
	Weight float32
}

// Sampler produces the sample points for a pixel. The weights returned for
// one pixel sum to 1. Implementations must be safe for concurrent use.
type Sampler interface {
	// Sample appends the samples for pixel (x, y) to dst and returns it.
	Sample(dst []Sample, x, y int) []Sample
}

// SingleSampler takes one sample at the pixel center.
type SingleSampler struct{}

// Sample implements Sampler.
func (SingleSampler) Sample(dst []Sample, x, y int) []Sample {
	return append(dst, Sample{X: float32(x), Y: float32(y), Weight: 1})
}

// UniformSampler places an N×N grid of samples at sub-cell centers.
type UniformSampler struct {
	n       int
	offsets []float32
	weight  float32
}

// NewUniformSampler creates a grid sampler with N = 2^(power-1) samples per
// axis, so power 1 is a single sample and power 3 is 4×4.
func NewUniformSampler(power int) (*UniformSampler, error) {
	if power < 1 || power > MaxSamplePower {
		return nil, fmt.Errorf("%w: power %d outside [1, %d]", ErrInvalidSampleCount, power, MaxSamplePower)
	}
	return NewGridSampler(1 << (power - 1))
}

// NewGridSampler creates an n×n grid sampler.
func NewGridSampler(n int) (*UniformSampler, error) {
	if n < 1 || n > 1<<(MaxSamplePower-1) {
		return nil, fmt.Errorf("%w: grid %d", ErrInvalidSampleCount, n)
	}
	s := &UniformSampler{
		n:       n,
		offsets: make([]float32, n),
		weight:  1 / float32(n*n),
	}
	for i := range n {
		s.offsets[i] = -0.5 + (float32(i)+0.5)/float32(n)
	}
	return s, nil
}

// GridSize returns N.
func (s *UniformSampler) GridSize() int { return s.n }

// Count returns the number of samples per pixel.
func (s *UniformSampler) Count() int { return s.n * s.n }

// Sample implements Sampler.
func (s *UniformSampler) Sample(dst []Sample, x, y int) []Sample {
	fx, fy := float32(x), float32(y)
	for _, oy := range s.offsets {
		for _, ox := range s.offsets {
			dst = append(dst, Sample{X: fx + ox, Y: fy + oy, Weight: s.weight})
		}
	}
	return dst
}

// SamplerForPower returns SingleSampler for power 1 and a UniformSampler
// otherwise.
func SamplerForPower(power int) (Sampler, error) {
	if power == 1 {
		return SingleSampler{}, nil
	}
	s, err := NewUniformSampler(power)
	if err != nil {
		return nil, err
	}
	return s, nil
}
