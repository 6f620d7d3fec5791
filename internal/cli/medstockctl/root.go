// Package medstockctl implements the medstock operator CLI.
package medstockctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// exitError carries the process exit code for failures that are not usage
// errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failed(format string, args ...any) error {
	return &exitError{code: 1, err: fmt.Errorf(format, args...)}
}

// Run executes the CLI and returns the process exit code: 0 on success, 1
// when a request fails and 2 on usage errors.
func Run(ctx context.Context, args []string, defaults Options) int {
	if defaults.Stdout == nil {
		defaults.Stdout = io.Discard
	}
	if defaults.Stderr == nil {
		defaults.Stderr = io.Discard
	}
	if defaults.Stdin == nil {
		defaults.Stdin = strings.NewReader("")
	}

	root := NewRootCommand(&defaults)
	root.SetArgs(args)
	root.SetOut(defaults.Stdout)
	root.SetErr(defaults.Stderr)
	root.SetIn(defaults.Stdin)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		_, _ = fmt.Fprintln(defaults.Stderr, exitErr.Error())
		return exitErr.code
	}
	_, _ = fmt.Fprintf(defaults.Stderr, "error: %v\n", err)
	return 2
}

func NewRootCommand(opts *Options) *cobra.Command {
	root := &cobra.Command{
		Use:           "medstockctl",
		Short:         "Operate and query a medstock API",
		Long:          "medstockctl talks to a medstock API: health checks, supply listings, questions and stock snapshots.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.BaseURL, "base-url", firstNonEmpty(opts.BaseURL, "http://localhost:5000"), "medstock API base URL")
	root.PersistentFlags().StringVar(&opts.APIKey, "api-key", opts.APIKey, "API key for authenticated requests")
	root.PersistentFlags().DurationVar(&opts.Timeout, "timeout", durationOr(opts.Timeout, 60*time.Second), "HTTP timeout (e.g. 30s)")

	root.AddCommand(
		newGetCommand(opts, "health", "Check API liveness", "/v1/health"),
		newGetCommand(opts, "ready", "Check API dependencies", "/v1/ready"),
		newGetCommand(opts, "supplies", "List known supplies", "/v1/supplies"),
		newAskCommand(opts),
		newChatCommand(opts),
		newSnapshotRunCommand(opts),
	)
	return root
}

type client struct {
	opts *Options
	http *http.Client
}

func newClient(opts *Options) *client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &client{opts: opts, http: httpClient}
}

// do sends the request and returns the body of a 2xx response. Error
// responses are reported with their status and body.
func (c *client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, failed("encode request: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	endpoint := strings.TrimRight(c.opts.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, failed("build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key := strings.TrimSpace(c.opts.APIKey); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failed("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failed("read response: %v", err)
	}
	if resp.StatusCode >= 400 {
		return nil, failed("http %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))
	}
	return responseBody, nil
}

func writeResponse(w io.Writer, raw []byte) {
	if pretty, ok := prettyJSON(raw); ok {
		_, _ = fmt.Fprintln(w, pretty)
		return
	}
	if len(raw) > 0 {
		_, _ = fmt.Fprintln(w, string(raw))
	}
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
