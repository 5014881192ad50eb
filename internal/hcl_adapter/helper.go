package hcl_adapter

import (
	"context"
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/netfab/internal/activation"
	"github.com/vk/netfab/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var rowType = cty.List(cty.Number)

// isExprDefined checks if an HCL expression was actually present in the source
// code. gohcl fills an omitted optional expression with a zero-width
// placeholder, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// decodeRow evaluates expr without variables and converts the result to a
// float32 row. Any sequence of numbers, or of strings that parse as numbers,
// is accepted.
func decodeRow(expr hcl.Expression) ([]float32, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, fmt.Errorf("%s: row must not be null", expr.Range())
	}

	converted, err := convert.Convert(val, rowType)
	if err != nil {
		return nil, fmt.Errorf("%s: row must be a list of numbers: %w", expr.Range(), err)
	}

	wide := []float64{}
	if err := gocty.FromCtyValue(converted, &wide); err != nil {
		return nil, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	row := make([]float32, len(wide))
	for i, v := range wide {
		if row[i], err = narrow(v); err != nil {
			return nil, fmt.Errorf("%s: element %d: %w", expr.Range(), i, err)
		}
	}
	return row, nil
}

// narrow converts v to float32, rejecting values float32 cannot hold as a
// finite number.
func narrow(v float64) (float32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
		return 0, fmt.Errorf("%g is out of range for float32", v)
	}
	return float32(v), nil
}

// parseActivation resolves an optional activation attribute. Absent means
// linear.
func parseActivation(name *string) (activation.Kind, error) {
	if name == nil {
		return activation.Linear, nil
	}
	return activation.Parse(*name)
}
