package commands

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `balance: "$1,234.56"
categories:
  Food: {amount: 30, color: "#f00"}
  Fun: {amount: 70, color: "#0f0"}
transactions:
  - {title: Salary, amount: 100, date: 2024-03-01, icon: "💰"}
  - {title: Groceries, amount: -40, date: 2024-03-02, subtitle: Food}
  - {title: Coffee, amount: -10, date: 2024-03-03, subtitle: Food}
`

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashboard.yaml"), []byte(dataset), 0o644))
	return dir
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSummary(t *testing.T) {
	out, _, err := runCommand(t, "summary", "--data", dataDir(t))
	require.NoError(t, err)

	assert.Contains(t, out, "$1,234.56")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "$50.00")
	assert.Contains(t, out, "Food • 30%")
	assert.Contains(t, out, "Fun • 70%")
	assert.NotContains(t, out, "sample data")
}

func TestSummaryFallsBackToSampleData(t *testing.T) {
	out, stderr, err := runCommand(t, "summary", "--data", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	assert.Contains(t, out, "(sample data)")
	assert.Contains(t, out, "$4,313.02")
	assert.Contains(t, stderr, "using sample data")
}

func TestList(t *testing.T) {
	dir := dataDir(t)

	out, _, err := runCommand(t, "list", "--data", dir, "--filter", "expense")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Coffee")
	assert.Contains(t, lines[1], "Groceries")
	assert.Contains(t, lines[1], "-$40.00")

	out, _, err = runCommand(t, "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "+$100.00")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	_, _, err := runCommand(t, "list", "--data", dataDir(t), "--filter", "bogus")
	assert.ErrorContains(t, err, "unknown filter")
}

func TestChartSVG(t *testing.T) {
	out, _, err := runCommand(t, "chart", "--data", dataDir(t), "--size", "200", "--line-width", "32")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `<path d="M 100 20 A 80 80 0 0 1 176.08 124.72"`)
	assert.Contains(t, out, `stroke-width="32"`)
}

func TestChartPNGToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "chart.png")
	_, _, err := runCommand(t, "chart", "--data", dataDir(t), "--format", "png", "--size", "100", "--dpr", "2", "--out", target)
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestChartRejectsNonFiniteMeasures(t *testing.T) {
	dir := dataDir(t)
	for _, args := range [][]string{
		{"--dpr", "NaN"},
		{"--size", "NaN"},
		{"--size", "+Inf"},
		{"--line-width", "NaN"},
		{"--dpr", "-1"},
	} {
		t.Run(strings.Join(args, "="), func(t *testing.T) {
			full := append([]string{"chart", "--data", dir, "--format", "png"}, args...)
			_, _, err := runCommand(t, full...)
			assert.ErrorContains(t, err, "finite, non-negative")
		})
	}
}

func TestChartClampsSizeAndRatio(t *testing.T) {
	dir := dataDir(t)
	tests := []struct {
		size, dpr string
		want      int
	}{
		{"5000", "1", 1024},
		{"10", "1", 64},
		{"100", "9", 400},
	}
	for _, tt := range tests {
		t.Run(tt.size+"@"+tt.dpr, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "chart.png")
			_, _, err := runCommand(t, "chart", "--data", dir, "--format", "png", "--size", tt.size, "--dpr", tt.dpr, "--out", target)
			require.NoError(t, err)

			f, err := os.Open(target)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, img.Bounds().Dx())
		})
	}
}

func TestChartRejectsBadFormat(t *testing.T) {
	_, _, err := runCommand(t, "chart", "--format", "gif")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestVersionFlag(t *testing.T) {
	out, _, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "walletdash version")
}

// fakeServer answers every validated endpoint, except broken, like a healthy server
func fakeServer(t *testing.T, broken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == broken {
			http.NotFound(w, r)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, ".svg"):
			w.Header().Set("Content-Type", "image/svg+xml")
			_, _ = w.Write([]byte("<svg></svg>"))
		case strings.HasSuffix(r.URL.Path, ".png"):
			w.Header().Set("Content-Type", "image/png")
		case strings.HasPrefix(r.URL.Path, "/api/") || strings.HasSuffix(r.URL.Path, ".json"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok","summary":{}}`))
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<div id="balance-amount"></div><div id="chart-center-value"></div><div id="transactions-list">Add new transaction</div>`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidate(t *testing.T) {
	srv := fakeServer(t, "")

	out, _, err := runCommand(t, "validate", "--url", srv.URL, "--list-passed")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS GET /api/health")
	assert.Contains(t, out, "Results: 9 passed, 0 failed")
}

func TestValidateReportsFailures(t *testing.T) {
	srv := fakeServer(t, "/dashboard/chart.png")

	out, _, err := runCommand(t, "validate", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL GET /dashboard/chart.png")
	assert.Contains(t, out, "status 404")
	assert.Contains(t, out, "Results: 8 passed, 1 failed")
}
