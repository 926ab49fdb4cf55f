package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/pipegrade/internal/network"
	"github.com/fyrsmithlabs/pipegrade/internal/report"
)

const testNetwork = `[
  {"id": "mh-1", "medium": "Wastewater", "object_type": "SHAFT", "points": [{"east": 0, "north": 0, "altitude": 100}]},
  {"id": "p-1", "medium": "Wastewater", "object_type": "PIPE", "dimension": {"shape": "ROUND", "diameter": 0.5},
   "points": [{"east": 0, "north": 0, "altitude": 98}, {"east": 100, "north": 0, "altitude": 99}]},
  {"id": "p-2", "medium": "Water", "object_type": "PIPE", "geometry": "line", "points": [{"east": 0, "north": 0, "altitude": 1}]}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, context.Background(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
	assert.Contains(t, out, "Commit:")
}

func TestAdjustCommand_JSONReport(t *testing.T) {
	in := writeFile(t, "network.json", testNetwork)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.json")
	reportPath := filepath.Join(dir, "report.json")

	_, _, err := execute(t, context.Background(), "",
		"adjust", in, "--out", outPath, "--report", reportPath, "--format", "json")
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	objects, err := network.DecodeObjects(f)
	require.NoError(t, err)
	require.Len(t, objects, 3)

	// Start anchored to mh-1 at 100 m, end lowered to 2% over 100 m.
	p := objects[1]
	assert.Equal(t, 100.0, p.Start().Altitude)
	assert.InDelta(t, 98.0, p.End().Altitude, 1e-9)

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep struct {
		Report      report.AdjustmentReport `json:"report"`
		Diagnostics []map[string]string     `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Equal(t, 1, rep.Report.TotalAdjustments)
	assert.Equal(t, "start_anchor", rep.Report.Adjustments[0].Case)
	require.Len(t, rep.Diagnostics, 1)
	assert.Equal(t, "p-2", rep.Diagnostics[0]["object_id"])
}

func TestAdjustCommand_StdinAndTextReport(t *testing.T) {
	out, stderr, err := execute(t, context.Background(), testNetwork, "adjust", "-", "--min-gradient", "3")
	require.NoError(t, err)

	objects, err := network.DecodeObjects(strings.NewReader(out))
	require.NoError(t, err)
	assert.InDelta(t, 97.0, objects[1].End().Altitude, 1e-9)

	assert.Contains(t, stderr, "Adjusted 1 pipelines across 1 mediums")
	assert.Contains(t, stderr, "skipped p-2 (Water)")
}

func TestAdjustCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"adjust", filepath.Join(t.TempDir(), "nope.json")}, "failed to open"},
		{"bad format", []string{"adjust", "-", "--format", "xml"}, "unsupported format"},
		{"invalid params", []string{"adjust", "-", "--min-gradient", "-1"}, "invalid gradient parameters"},
		{"no args", []string{"adjust"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, context.Background(), testNetwork, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("malformed input", func(t *testing.T) {
		_, _, err := execute(t, context.Background(), "{not json", "adjust", "-")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding network objects")
	})
}

func TestAdjustCommand_ConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "pipegrade.yaml", `
gradient:
  min_gradient_percent: 5
  manhole_search_radius: 0.5
compatibility:
  strategy: explicit
  rules:
    Wastewater: [Wastewater]
`)
	out, _, err := execute(t, context.Background(), testNetwork, "--config", cfgPath, "adjust", "-", "--report", filepath.Join(t.TempDir(), "r.txt"))
	require.NoError(t, err)

	objects, err := network.DecodeObjects(strings.NewReader(out))
	require.NoError(t, err)
	assert.InDelta(t, 95.0, objects[1].End().Altitude, 1e-9)
}

func TestCoverHeightsCommand(t *testing.T) {
	in := writeFile(t, "network.json", testNetwork)
	out, _, err := execute(t, context.Background(), "", "cover-heights", in, "--format", "json")
	require.NoError(t, err)

	var rep report.CoverHeightReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, 1, rep.TotalShafts)
	assert.Equal(t, "p-1", rep.Shafts[0].LowestPipeID)
	assert.InDelta(t, 2.5, rep.Shafts[0].HeightDifference, 1e-9)

	text, _, err := execute(t, context.Background(), "", "cover-heights", in)
	require.NoError(t, err)
	assert.Contains(t, text, "Calculated cover heights for 1 shafts")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServeCommand(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		_, _, err := execute(t, ctx, "", "serve", "--port", fmt.Sprint(port))
		errCh <- err
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
