// Package activation defines the fixed catalog of node activation functions.
//
// Each Kind maps to a pure single-precision function. The catalog is a plain
// enumeration and cannot be patched at runtime; networks that need other
// functions supply them directly and are reported as Custom.
package activation

import (
	"fmt"
	"math"
	"strings"
)

// Func is a pure numeric transformation applied to a node's weighted sum.
type Func func(float32) float32

// Kind identifies an entry of the activation catalog.
type Kind uint8

const (
	Linear Kind = iota
	Sigmoid
	Tanh
	Gaussian
	Relu
	Square
	Inverse
	// Custom marks a caller-supplied function that is not part of the catalog.
	Custom
)

var names = [...]string{
	Linear:   "linear",
	Sigmoid:  "sigmoid",
	Tanh:     "tanh",
	Gaussian: "gaussian",
	Relu:     "relu",
	Square:   "square",
	Inverse:  "inverse",
	Custom:   "custom",
}

// Identity returns its argument unchanged. It is the transformation used for
// carried values.
func Identity(v float32) float32 { return v }

// steepness follows the NEAT convention of a sigmoid that saturates near ±1.
const steepness = 4.9

func sigmoid(v float32) float32 {
	return float32(1 / (1 + math.Exp(-steepness*float64(v))))
}

func tanh(v float32) float32 {
	return 2*sigmoid(2*v) - 1
}

func gaussian(v float32) float32 {
	return float32(math.Exp(float64(v*v) / -2))
}

func relu(v float32) float32 {
	if v > 0 {
		return v
	}
	return 0
}

func square(v float32) float32 { return v * v }

func inverse(v float32) float32 { return -v }

// Func returns the function for k. Custom and unknown kinds yield Identity.
func (k Kind) Func() Func {
	switch k {
	case Sigmoid:
		return sigmoid
	case Tanh:
		return tanh
	case Gaussian:
		return gaussian
	case Relu:
		return relu
	case Square:
		return square
	case Inverse:
		return inverse
	default:
		return Identity
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Parse resolves a catalog name, case-insensitively. The empty string
// resolves to Linear. Custom cannot be parsed.
func Parse(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Linear, nil
	}
	for k, n := range names {
		if Kind(k) == Custom {
			continue
		}
		if n == name {
			return Kind(k), nil
		}
	}
	return Custom, fmt.Errorf("unknown activation %q", name)
}

// FromCode maps the single-letter codes used by compact test fixtures
// ('l', 's', 't', 'g', 'r', 'q', 'i'). Unknown codes map to Sigmoid.
func FromCode(c byte) Kind {
	switch c {
	case 'l':
		return Linear
	case 's':
		return Sigmoid
	case 't':
		return Tanh
	case 'g':
		return Gaussian
	case 'r':
		return Relu
	case 'q':
		return Square
	case 'i':
		return Inverse
	default:
		return Sigmoid
	}
}
