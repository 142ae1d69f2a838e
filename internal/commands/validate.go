package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type endpoint struct {
	path        string
	contentType string
	contains    []string
}

var endpoints = []endpoint{
	// Pages
	{path: "/dashboard", contentType: "text/html", contains: []string{"balance-amount", "chart-center-value"}},
	{path: "/transactions/new", contentType: "text/html", contains: []string{"Add new transaction"}},

	// Partials
	{path: "/dashboard/transactions?filter=expense", contentType: "text/html", contains: []string{"transactions-list"}},

	// Chart
	{path: "/dashboard/chart.svg", contentType: "image/svg+xml", contains: []string{"<svg"}},
	{path: "/dashboard/chart.png", contentType: "image/png"},
	{path: "/dashboard/chart.json", contentType: "application/json"},

	// API
	{path: "/api/summary", contentType: "application/json", contains: []string{`"summary"`}},
	{path: "/api/dashboard/by-category", contentType: "application/json"},
	{path: "/api/health", contentType: "application/json", contains: []string{`"status":"ok"`}},
}

type result struct {
	endpoint endpoint
	status   int
	duration time.Duration
	err      error
}

func newValidateCommand() *cobra.Command {
	var (
		url     string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Smoke-test the endpoints of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: timeout}
			out := cmd.OutOrStdout()
			baseURL := strings.TrimRight(url, "/")

			fmt.Fprintf(out, "Validating server at %s\n", baseURL)
			fmt.Fprintf(out, "Testing %d endpoints...\n\n", len(endpoints))

			var passed, failed int
			for _, ep := range endpoints {
				r := validateEndpoint(client, baseURL, ep)
				switch {
				case r.err != nil:
					failed++
					fmt.Fprintf(out, "FAIL GET %s\n", ep.path)
					fmt.Fprintf(out, "     Error: %v\n", r.err)
				default:
					passed++
					if verbose {
						fmt.Fprintf(out, "PASS GET %s (%v)\n", ep.path, r.duration.Round(time.Millisecond))
					}
				}
			}

			fmt.Fprintf(out, "\n========================================\n")
			fmt.Fprintf(out, "Results: %d passed, %d failed\n", passed, failed)

			if failed > 0 {
				return fmt.Errorf("%d of %d endpoints failed", failed, len(endpoints))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080", "base URL of the server to validate")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	cmd.Flags().BoolVar(&verbose, "list-passed", false, "print passing endpoints too")
	return cmd
}

func validateEndpoint(client *http.Client, baseURL string, ep endpoint) result {
	start := time.Now()

	resp, err := client.Get(baseURL + ep.path)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to read body: %w", err)}
	}

	r := result{
		endpoint: ep,
		status:   resp.StatusCode,
		duration: time.Since(start),
	}

	if resp.StatusCode != http.StatusOK {
		r.err = fmt.Errorf("status %d (expected 200)", resp.StatusCode)
		return r
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, ep.contentType) {
		r.err = fmt.Errorf("wrong content type: got %q, expected %q", ct, ep.contentType)
		return r
	}

	if ep.contentType == "application/json" && !json.Valid(body) {
		r.err = fmt.Errorf("invalid JSON")
		return r
	}

	for _, needle := range ep.contains {
		if !strings.Contains(string(body), needle) {
			r.err = fmt.Errorf("missing expected content: %q", needle)
			return r
		}
	}

	return r
}
