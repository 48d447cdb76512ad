package sampler

import (
	"errors"
	"fmt"
)

// ErrUnknownParameter is returned by the generic parameter accessors for
// a name or tag outside the closed set.
var ErrUnknownParameter = errors.New("unknown parameter")

// Parameter tags one of the per-step automation matrices.
type Parameter int

const (
	Velocity Parameter = iota
	Speed
)

func (p Parameter) String() string {
	switch p {
	case Velocity:
		return "velocity"
	case Speed:
		return "speed"
	}
	return fmt.Sprintf("parameter(%d)", int(p))
}

// ParseParameter maps a parameter name to its tag.
func ParseParameter(name string) (Parameter, error) {
	switch name {
	case "velocity":
		return Velocity, nil
	case "speed":
		return Speed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

type matrix [][]float64

func newMatrix(samples, steps int, value float64) matrix {
	m := make(matrix, samples)
	for i := range m {
		m[i] = make([]float64, steps)
		for j := range m[i] {
			m[i][j] = value
		}
	}
	return m
}

func (s *Sampler) lookup(p Parameter) (matrix, error) {
	switch p {
	case Velocity:
		return s.velocity, nil
	case Speed:
		return s.speed, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, p)
}

// ChangeParameter adds a delta to the tagged matrix at a step and returns
// the new value.
func (s *Sampler) ChangeParameter(p Parameter, slot, step int, by float64) (float64, error) {
	m, err := s.lookup(p)
	if err != nil {
		return 0, err
	}
	m[slot][step] += by
	return m[slot][step], nil
}

// ParameterValue returns the tagged matrix value at a step.
func (s *Sampler) ParameterValue(p Parameter, slot, step int) (float64, error) {
	m, err := s.lookup(p)
	if err != nil {
		return 0, err
	}
	return m[slot][step], nil
}
