package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/vk/netfab/internal/ctxlog"
	"github.com/vk/netfab/internal/dag"
	"github.com/vk/netfab/internal/feedforward"
	"github.com/vk/netfab/internal/hcl_adapter"
	"github.com/vk/netfab/internal/network"
	"github.com/vk/netfab/internal/recurrent"
)

// ErrSampleMismatch is returned by Run when at least one sample output is
// outside the configured tolerance of its expectation.
var ErrSampleMismatch = errors.New("sample output mismatch")

// Run fabricates the loaded network, evaluates every sample and reports one
// line per sample on the output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	net := a.model.Net
	var compiled network.Network = net
	if net.IsRecurrent() {
		compiled = network.Unroll(net)
	}

	if a.config.UnrolledPath != "" {
		if err := a.writeCompiled(compiled); err != nil {
			return err
		}
	}

	if err := a.checkWidths(); err != nil {
		return err
	}

	a.logger.Info("🚀 Fabricating network...", "network", net.String())
	var (
		results [][]float32
		err     error
	)
	if net.IsRecurrent() {
		results, err = a.runRecurrent(ctx, net, compiled)
	} else {
		results, err = a.runFeedforward(ctx, net)
	}
	if err != nil {
		return err
	}

	if len(a.model.Samples) == 0 {
		a.logger.Warn("No samples found, evaluation not required.")
		return nil
	}

	if err := a.report(results); err != nil {
		return err
	}
	a.logger.Info("🏁 Evaluation finished.", "samples", len(results))
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runFeedforward(ctx context.Context, net network.Network) ([][]float32, error) {
	e, err := feedforward.Fabricate(ctx, net)
	if err != nil {
		return nil, fabricateError(err, net)
	}
	a.logger.Debug("Feedforward network fabricated.", "stages", len(e.Shapes()), "shapes", e.Shapes())

	rows := make([][]float32, len(a.model.Samples))
	for i, s := range a.model.Samples {
		rows[i] = s.Input
	}
	results, err := e.EvaluateBatch(ctx, rows, a.config.WorkerCount)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return results, nil
}

// runRecurrent evaluates samples in declaration order; state carries from one
// sample to the next.
func (a *App) runRecurrent(ctx context.Context, net network.Recurrent, unrolled network.Network) ([][]float32, error) {
	e, err := recurrent.Fabricate(ctx, net)
	if err != nil {
		return nil, fabricateError(err, unrolled)
	}
	a.logger.Debug("Recurrent network fabricated.", "state_slots", len(e.State()))

	results := make([][]float32, 0, len(a.model.Samples))
	for _, s := range a.model.Samples {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evaluation failed: %w", err)
		}
		results = append(results, e.Evaluate(s.Input))
	}
	return results, nil
}

// fabricateError names the cycles of compiled when it could not be resolved.
func fabricateError(err error, compiled network.Network) error {
	if errors.Is(err, feedforward.ErrUnresolvable) {
		if cycles := dag.Cycles(compiled); len(cycles) > 0 {
			return fmt.Errorf("failed to fabricate network: %w (cycles: %v)", err, cycles)
		}
	}
	return fmt.Errorf("failed to fabricate network: %w", err)
}

func (a *App) checkWidths() error {
	inputs, outputs := len(a.model.Net.Inputs()), len(a.model.Net.Outputs())
	for _, s := range a.model.Samples {
		if len(s.Input) != inputs {
			return fmt.Errorf("sample %q: input has %d values, network has %d inputs", s.Name, len(s.Input), inputs)
		}
		if s.HasExpect() && len(s.Expect) != outputs {
			return fmt.Errorf("sample %q: expect has %d values, network has %d outputs", s.Name, len(s.Expect), outputs)
		}
	}
	return nil
}

func (a *App) report(results [][]float32) error {
	mismatched := 0
	for i, s := range a.model.Samples {
		got := results[i]
		switch {
		case !s.HasExpect():
			fmt.Fprintf(a.outW, "%s\t%v\n", s.Name, got)
		case within(got, s.Expect, a.config.Tolerance):
			fmt.Fprintf(a.outW, "%s\t%v\tok\n", s.Name, got)
		default:
			mismatched++
			fmt.Fprintf(a.outW, "%s\t%v\tMISMATCH expect %v\n", s.Name, got, s.Expect)
			a.logger.Warn("Sample output outside tolerance.", "sample", s.Name, "got", got, "expect", s.Expect)
		}
	}
	if mismatched > 0 {
		return fmt.Errorf("%w: %d of %d samples", ErrSampleMismatch, mismatched, len(results))
	}
	return nil
}

func (a *App) writeCompiled(n network.Network) error {
	r, ok := n.(network.Recurrent)
	if !ok {
		return fmt.Errorf("cannot write network of type %T", n)
	}

	f, err := os.Create(a.config.UnrolledPath)
	if err != nil {
		return fmt.Errorf("failed to create unrolled output: %w", err)
	}
	defer f.Close()

	if err := hcl_adapter.Write(f, r, nil); err != nil {
		return fmt.Errorf("failed to write unrolled network: %w", err)
	}
	a.logger.Info("Unrolled network written.", "path", a.config.UnrolledPath)
	return nil
}

// within reports whether every value of got is no further than tol from the
// matching value of want. NaN never matches.
func within(got, want []float32, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !(math.Abs(float64(got[i])-float64(want[i])) <= tol) {
			return false
		}
	}
	return true
}
