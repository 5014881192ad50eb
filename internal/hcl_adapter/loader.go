package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/netfab/internal/config"
	"github.com/vk/netfab/internal/ctxlog"
	"github.com/vk/netfab/internal/fsutil"
	"github.com/vk/netfab/internal/network"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// partition accumulates nodes and edges across files before the network is
// assembled.
type partition struct {
	inputs, hidden, outputs []network.Node
	edges, recurrent        []network.Edge
}

// Load parses every .hcl file found under paths and merges all blocks into a
// single model. The merged network is validated: node ids must be unique and
// every edge must reference a declared node.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	var part partition
	model := &config.Model{}
	sampleNames := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, n := range root.Nodes {
			if err := part.addNode(n); err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
		}
		for _, e := range root.Edges {
			if err := part.addEdge(e); err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
		}
		for _, s := range root.Samples {
			if prev, dup := sampleNames[s.Name]; dup {
				return nil, fmt.Errorf("in %s: sample %q already defined in %s", file, s.Name, prev)
			}
			sampleNames[s.Name] = file

			sample, err := l.translateSample(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Samples = append(model.Samples, sample)
		}
	}

	model.Net = network.New(part.inputs, part.hidden, part.outputs, part.edges)
	model.Net.SetRecurrentEdges(part.recurrent)
	if err := model.Net.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}

	logger.Debug("HCL loading complete.",
		"inputs", len(part.inputs),
		"hidden", len(part.hidden),
		"outputs", len(part.outputs),
		"edges", len(part.edges),
		"recurrent_edges", len(part.recurrent),
		"samples", len(model.Samples),
	)
	return model, nil
}

func (p *partition) addNode(n *nodeBlock) error {
	kind, err := parseActivation(n.Activation)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.ID, err)
	}
	node := network.NewNode(n.ID, kind)

	switch n.Role {
	case roleInput:
		p.inputs = append(p.inputs, node)
	case roleHidden:
		p.hidden = append(p.hidden, node)
	case roleOutput:
		p.outputs = append(p.outputs, node)
	default:
		return fmt.Errorf("node %d: unknown role %q, must be one of %q, %q or %q", n.ID, n.Role, roleInput, roleHidden, roleOutput)
	}
	return nil
}

func (p *partition) addEdge(e *edgeBlock) error {
	weight, err := narrow(e.Weight)
	if err != nil {
		return fmt.Errorf("edge %d -> %d weight: %w", e.From, e.To, err)
	}
	edge := network.NewEdge(e.From, e.To, weight)
	if e.Recurrent {
		p.recurrent = append(p.recurrent, edge)
		return nil
	}
	p.edges = append(p.edges, edge)
	return nil
}

func (l *Loader) translateSample(ctx context.Context, s *sampleBlock) (config.Sample, error) {
	sample := config.Sample{Name: s.Name}

	input, err := decodeRow(s.Input)
	if err != nil {
		return sample, fmt.Errorf("sample %q input: %w", s.Name, err)
	}
	sample.Input = input

	if isExprDefined(ctx, s.Expect, "expect") {
		expect, err := decodeRow(s.Expect)
		if err != nil {
			return sample, fmt.Errorf("sample %q expect: %w", s.Name, err)
		}
		sample.Expect = expect
	}
	return sample, nil
}
