package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netfab/internal/feedforward"
	"github.com/vk/netfab/internal/hcl_adapter"
)

const carryHCL = `
node "input" { id = 0 }
node "hidden" { id = 1 }
node "output" { id = 2 }

edge {
  from   = 0
  to     = 1
  weight = 0.5
}
edge {
  from   = 1
  to     = 2
  weight = 0.5
}
edge {
  from   = 0
  to     = 2
  weight = 0.5
}
`

const selfFeedingHCL = `
node "input" { id = 0 }
node "output" { id = 1 }

edge {
  from   = 0
  to     = 1
  weight = 1
}
edge {
  from      = 1
  to        = 1
  weight    = 0.5
  recurrent = true
}

sample "t0" {
  input  = [1]
  expect = [1]
}
sample "t1" {
  input  = [1]
  expect = [1.5]
}
sample "t2" {
  input  = [1]
  expect = [1.75]
}
`

func TestRun_Feedforward(t *testing.T) {
	hcl := carryHCL + `
sample "five" {
  input  = [5]
  expect = [3.75]
}
sample "two" {
  input = [2]
}
`
	a, out, logs := SetupAppTest(t, hcl, Config{})

	require.NoError(t, a.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"five\t[3.75]\tok", "two\t[1.5]"}, lines)
	assert.Contains(t, logs.String(), "Evaluation finished.")
	assert.Contains(t, logs.String(), "shapes=")
	assert.Contains(t, logs.String(), "{Rows:1 Cols:2} {Rows:2 Cols:1}")
}

func TestRun_Mismatch(t *testing.T) {
	hcl := carryHCL + `
sample "wrong" {
  input  = [5]
  expect = [1]
}
`
	a, out, _ := SetupAppTest(t, hcl, Config{Tolerance: 0.1})

	err := a.Run(context.Background())
	require.ErrorIs(t, err, ErrSampleMismatch)
	assert.Contains(t, err.Error(), "1 of 1 samples")
	assert.Contains(t, out.String(), "MISMATCH expect [1]")
}

func TestRun_Tolerance(t *testing.T) {
	hcl := carryHCL + `
sample "close" {
  input  = [5]
  expect = [3.7]
}
`
	a, out, _ := SetupAppTest(t, hcl, Config{Tolerance: 0.1})

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "close\t[3.75]\tok")
}

func TestRun_RecurrentCarriesStateAcrossSamples(t *testing.T) {
	unrolled := filepath.Join(t.TempDir(), "unrolled.hcl")
	a, out, _ := SetupAppTest(t, selfFeedingHCL, Config{UnrolledPath: unrolled})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "t0\t[1]\tok\nt1\t[1.5]\tok\nt2\t[1.75]\tok\n", out.String())

	// The written network is acyclic and loads back without recurrent edges.
	model, err := hcl_adapter.NewLoader().Load(context.Background(), unrolled)
	require.NoError(t, err)
	assert.False(t, model.Net.IsRecurrent())
	assert.Len(t, model.Net.Inputs(), 2)
}

func TestRun_CycleIsNamed(t *testing.T) {
	hcl := `
node "input" { id = 0 }
node "hidden" { id = 1 }
node "output" { id = 2 }

edge {
  from   = 0
  to     = 1
  weight = 1
}
edge {
  from   = 1
  to     = 2
  weight = 1
}
edge {
  from   = 2
  to     = 1
  weight = 1
}
`
	a, _, _ := SetupAppTest(t, hcl, Config{})

	err := a.Run(context.Background())
	require.ErrorIs(t, err, feedforward.ErrUnresolvable)
	assert.Contains(t, err.Error(), "cycles: [[1 2]]")
}

func TestRun_SampleWidthChecked(t *testing.T) {
	hcl := carryHCL + `
sample "wide" {
  input = [1, 2]
}
`
	a, _, _ := SetupAppTest(t, hcl, Config{})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sample "wide": input has 2 values, network has 1 inputs`)
}

func TestRun_NoSamples(t *testing.T) {
	a, out, logs := SetupAppTest(t, carryHCL, Config{})

	require.NoError(t, a.Run(context.Background()))
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "No samples found")
}

func TestRun_CanceledContext(t *testing.T) {
	hcl := carryHCL + `
sample "five" { input = [5] }
`
	a, _, _ := SetupAppTest(t, hcl, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewApp_LoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`node "input" {`), 0o600))

	cfg, err := NewConfig(Config{NetworkPaths: []string{path}, WorkerCount: 1})
	require.NoError(t, err)

	_, err = NewApp(context.Background(), &SafeBuffer{}, &SafeBuffer{}, cfg, hcl_adapter.NewLoader())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{NetworkPaths: []string{"net.hcl"}, WorkerCount: 1}},
		{name: "no paths", cfg: Config{WorkerCount: 1}, wantErr: "NetworkPaths is a required"},
		{name: "no workers", cfg: Config{NetworkPaths: []string{"x"}}, wantErr: "WorkerCount must be at least 1"},
		{name: "negative tolerance", cfg: Config{NetworkPaths: []string{"x"}, WorkerCount: 1, Tolerance: -1}, wantErr: "Tolerance must be"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := &SafeBuffer{}
	logger := newLogger("warn", "json", buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}
