package hcl_adapter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/netfab/internal/activation"
	"github.com/vk/netfab/internal/config"
	"github.com/vk/netfab/internal/network"
	"github.com/zclconf/go-cty/cty"
)

// Write renders n and samples in the format Load reads. Nodes with a custom
// activation cannot be expressed and are rejected.
func Write(w io.Writer, n network.Recurrent, samples []config.Sample) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	roles := []struct {
		role  string
		nodes []network.Node
	}{
		{roleInput, n.Inputs()},
		{roleHidden, n.Hidden()},
		{roleOutput, n.Outputs()},
	}
	for _, r := range roles {
		for _, node := range r.nodes {
			kind := network.KindOf(node)
			if kind == activation.Custom {
				return fmt.Errorf("node %d: custom activation cannot be written", node.ID())
			}
			b := body.AppendNewBlock("node", []string{r.role}).Body()
			b.SetAttributeValue("id", cty.NumberUIntVal(node.ID()))
			if kind != activation.Linear {
				b.SetAttributeValue("activation", cty.StringVal(kind.String()))
			}
		}
	}

	appendEdges := func(edges []network.Edge, recurrent bool) error {
		for _, e := range edges {
			weight, err := numberVal(e.Weight())
			if err != nil {
				return err
			}
			b := body.AppendNewBlock("edge", nil).Body()
			b.SetAttributeValue("from", cty.NumberUIntVal(e.Start()))
			b.SetAttributeValue("to", cty.NumberUIntVal(e.End()))
			b.SetAttributeValue("weight", weight)
			if recurrent {
				b.SetAttributeValue("recurrent", cty.True)
			}
		}
		return nil
	}
	if err := appendEdges(n.Edges(), false); err != nil {
		return err
	}
	if err := appendEdges(n.RecurrentEdges(), true); err != nil {
		return err
	}

	for _, s := range samples {
		b := body.AppendNewBlock("sample", []string{s.Name}).Body()
		input, err := rowVal(s.Input)
		if err != nil {
			return fmt.Errorf("sample %q: %w", s.Name, err)
		}
		b.SetAttributeValue("input", input)
		if s.HasExpect() {
			expect, err := rowVal(s.Expect)
			if err != nil {
				return fmt.Errorf("sample %q: %w", s.Name, err)
			}
			b.SetAttributeValue("expect", expect)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// numberVal uses the shortest decimal that round-trips through float32.
func numberVal(v float32) (cty.Value, error) {
	return cty.ParseNumberVal(strconv.FormatFloat(float64(v), 'g', -1, 32))
}

func rowVal(row []float32) (cty.Value, error) {
	if len(row) == 0 {
		return cty.ListValEmpty(cty.Number), nil
	}
	vals := make([]cty.Value, len(row))
	for i, v := range row {
		n, err := numberVal(v)
		if err != nil {
			return cty.NilVal, err
		}
		vals[i] = n
	}
	return cty.ListVal(vals), nil
}
