package config

import (
	"context"

	"github.com/vk/netfab/internal/network"
)

// Loader reads network definitions from the given paths and merges them into
// a single Model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Model is everything loaded from a set of definition files.
type Model struct {
	Net     *network.Net
	Samples []Sample
}

// Sample is a named input row with an optional expected output row. Expect
// is nil when the sample only records what the network produces.
type Sample struct {
	Name   string
	Input  []float32
	Expect []float32
}

// HasExpect reports whether the sample carries an expected output.
func (s Sample) HasExpect() bool { return s.Expect != nil }
