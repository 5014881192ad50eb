package app

import (
	"errors"
	"fmt"
	"math"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	NetworkPaths []string // hcl files or directories

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// UnrolledPath, when set, receives the network actually compiled, in HCL.
	UnrolledPath string
	// Tolerance is the largest absolute difference accepted between a sample
	// output and its expectation.
	Tolerance float64
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.NetworkPaths) == 0 {
		return nil, errors.New("NetworkPaths is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("WorkerCount must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return nil, fmt.Errorf("Tolerance must be a non-negative number, got %v", cfg.Tolerance)
	}
	return &cfg, nil
}
