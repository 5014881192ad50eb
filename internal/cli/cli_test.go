package cli

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netfab/internal/app"
)

func TestParse(t *testing.T) {
	defaults := func(paths ...string) *app.Config {
		return &app.Config{
			NetworkPaths: paths,
			LogFormat:    "text",
			LogLevel:     "info",
			WorkerCount:  runtime.GOMAXPROCS(0),
			Tolerance:    1e-6,
		}
	}

	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{name: "positional path", args: []string{"net.hcl"}, want: defaults("net.hcl")},
		{name: "long flag", args: []string{"-net", "nets/"}, want: defaults("nets/")},
		{name: "short flag plus positional", args: []string{"-n", "a.hcl", "b.hcl"}, want: defaults("a.hcl", "b.hcl")},
		{
			name: "all options",
			args: []string{
				"-log-format", "JSON", "-log-level", "DEBUG", "-workers", "3",
				"-unrolled-out", "out.hcl", "-tolerance", "0.01", "net.hcl",
			},
			want: &app.Config{
				NetworkPaths: []string{"net.hcl"},
				LogFormat:    "json",
				LogLevel:     "debug",
				WorkerCount:  3,
				UnrolledPath: "out.hcl",
				Tolerance:    0.01,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, shouldExit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			assert.False(t, shouldExit)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ShouldExit(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "help flag", args: []string{"-h"}},
		{name: "no path", args: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"-bogus"}, wantMsg: "flag provided but not defined: -bogus"},
		{name: "bad log format", args: []string{"-log-format", "xml", "n.hcl"}, wantMsg: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "trace", "n.hcl"}, wantMsg: "invalid log-level"},
		{name: "zero workers", args: []string{"-workers", "0", "n.hcl"}, wantMsg: "WorkerCount must be at least 1"},
		{name: "negative tolerance", args: []string{"-tolerance", "-1", "n.hcl"}, wantMsg: "Tolerance must be"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
