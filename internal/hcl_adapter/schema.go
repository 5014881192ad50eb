package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Nodes   []*nodeBlock   `hcl:"node,block"`
	Edges   []*edgeBlock   `hcl:"edge,block"`
	Samples []*sampleBlock `hcl:"sample,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// nodeBlock is `node "<role>" { ... }`.
type nodeBlock struct {
	Role       string  `hcl:"role,label"`
	ID         uint64  `hcl:"id"`
	Activation *string `hcl:"activation,optional"`
}

// edgeBlock is `edge { ... }`.
type edgeBlock struct {
	From      uint64  `hcl:"from"`
	To        uint64  `hcl:"to"`
	Weight    float64 `hcl:"weight"`
	Recurrent bool    `hcl:"recurrent,optional"`
}

// sampleBlock is `sample "<name>" { ... }`. Rows stay expressions until
// they are converted to list(number).
type sampleBlock struct {
	Name   string         `hcl:"name,label"`
	Input  hcl.Expression `hcl:"input"`
	Expect hcl.Expression `hcl:"expect,optional"`
}

const (
	roleInput  = "input"
	roleHidden = "hidden"
	roleOutput = "output"
)
