package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ddsolve/config"
	"github.com/katalvlaran/ddsolve/mdd"
	"github.com/katalvlaran/ddsolve/metrics"
)

const (
	knapsackFile = "5 10\n10 5\n40 4\n30 6\n50 3\n25 5\n"
	tsptwFile    = "4\n0 2 4 3\n2 0 2 5\n4 2 0 2\n3 5 2 0\n0 100\n0 3\n0 10\n0 20\n"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the CLI with args and returns stdout and the log output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func TestKnapsackCommand(t *testing.T) {
	path := writeFile(t, "k.txt", knapsackFile)

	for _, driver := range []string{"bb", "astar"} {
		t.Run(driver, func(t *testing.T) {
			out, _, err := execute(t, "knapsack", path, "--solver", driver, "--width", "2", "--verbosity", "0")
			require.NoError(t, err)
			assert.Contains(t, out, "OPTIMAL")
			assert.Contains(t, out, "90")
			assert.Contains(t, out, "items 1 3")
		})
	}
}

func TestGolombCommand(t *testing.T) {
	out, _, err := execute(t, "golomb", "4", "--solver", "astar", "--weight", "2", "--weight-decay", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "OPTIMAL")
	assert.Contains(t, out, "length 6")

	_, _, err = execute(t, "golomb", "four")
	assert.Error(t, err)
	_, _, err = execute(t, "golomb", "12")
	assert.Error(t, err)
}

func TestTSPTWCommand_Export(t *testing.T) {
	path := writeFile(t, "t.txt", tsptwFile)
	dir := filepath.Join(t.TempDir(), "diagrams")

	out, logs, err := execute(t, "tsptw", path, "--width", "1", "--export", dir, "--verbosity", "2", "--cutset", "lel")
	require.NoError(t, err)
	assert.Contains(t, out, "tour [0 1 2 3 0], travel time 9")
	assert.Contains(t, logs, "search finished")
	assert.FileExists(t, filepath.Join(dir, "relaxed.dot"))
}

func TestTSPTWCommand_ExportFromConfig(t *testing.T) {
	path := writeFile(t, "t.txt", tsptwFile)
	dir := filepath.Join(t.TempDir(), "diagrams")
	cfgPath := writeFile(t, "ddsolve.toml", "[solver]\nexport_dir = \""+filepath.ToSlash(dir)+"\"\n")

	_, _, err := execute(t, "tsptw", path, "--width", "1", "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "relaxed.dot"))
}

func TestResolve_Precedence(t *testing.T) {
	cfgPath := writeFile(t, "ddsolve.toml", "[solver]\nwidth = 7\ncutset = \"lel\"\n[log]\nlevel = \"warn\"\nverbosity = 2\n")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	cmd, _, err := root.Find([]string{"golomb"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--width", "3", "--frontier", "nodup"}))

	r, err := c.flags.resolve(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, r.cfg.Solver.Width, "flag overrides file")
	assert.Equal(t, "lel", r.cfg.Solver.Cutset, "file overrides default")
	assert.Equal(t, config.FrontierNoDup, r.cfg.Solver.Frontier)
	assert.Equal(t, 2, r.cfg.Log.Verbosity)
	assert.Equal(t, log.WarnLevel, r.level)
	assert.False(t, r.export)

	so, err := r.cfg.SolverOptions()
	require.NoError(t, err)
	assert.Equal(t, mdd.LastExactLayer, so.Cutset)
}

func TestResolve_Errors(t *testing.T) {
	path := writeFile(t, "k.txt", knapsackFile)

	cases := [][]string{
		{"knapsack", path, "--solver", "dfs"},
		{"knapsack", path, "--cutset", "middle"},
		{"knapsack", path, "--weight", "0.2"},
		{"knapsack", path, "--config", filepath.Join(t.TempDir(), "missing.toml")},
		{"knapsack", filepath.Join(t.TempDir(), "missing.txt")},
	}
	for _, args := range cases {
		_, _, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := metrics.New(reg)
	hooks.OnIncumbent(context.Background(), 42)

	srv := httptest.NewServer(newRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "ddsolve_incumbent_value 42")
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	stop, err := serveMetrics(context.Background(), "127.0.0.1:0", reg, log.New(io.Discard))
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
