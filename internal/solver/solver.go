// Package solver is the HTTP client for the remote computation engine. The
// engine owns the physical simulation; this client only submits dataset
// definitions and ephemeris parameters and decodes the results. Every
// response arrives in a {success, result, error} envelope, which the client
// converts to a typed result or an error. No sentinel fields leak past
// this boundary.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/papapumpkin/cepheid/internal/dataset"
)

// APIError is a failure reported by the solver service itself, as opposed
// to a transport failure.
type APIError struct {
	Op     string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("solver %s failed", e.Op)
	}
	return fmt.Sprintf("solver %s failed: %s", e.Op, e.Detail)
}

// Client talks to a solver service over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the solver at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// envelope is the wire form of every solver response.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Result  json.RawMessage `json:"result"`
}

// call POSTs payload to path and decodes the envelope's result into out.
// A transport or decode failure is returned as-is; a service-level failure
// becomes an *APIError.
func (c *Client) call(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("solver %s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("solver %s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("solver %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("solver %s: read response: %w", op, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("solver %s: decode response: %w", op, err)
	}
	if !env.Success {
		return &APIError{Op: op, Detail: env.Error}
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("solver %s: decode result: %w", op, err)
		}
	}
	return nil
}

// RegisterDataset submits a dataset definition, replacing any existing
// registration for the same label.
func (c *Client) RegisterDataset(ctx context.Context, def dataset.Definition) error {
	return c.call(ctx, "add_dataset", "/datasets/add", def, nil)
}

// DropDataset removes a dataset from the solver.
func (c *Client) DropDataset(ctx context.Context, label string) error {
	payload := map[string]string{"dataset": label}
	return c.call(ctx, "remove_dataset", "/datasets/remove", payload, nil)
}

// FetchSummary returns the solver's flat per-dataset summaries.
func (c *Client) FetchSummary(ctx context.Context) (map[string]dataset.Summary, error) {
	var result struct {
		Datasets map[string]dataset.Summary `json:"datasets"`
	}
	if err := c.call(ctx, "get_datasets", "/datasets", nil, &result); err != nil {
		return nil, err
	}
	return result.Datasets, nil
}

// FetchSnapshot returns the full parameter-set snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) ([]dataset.Parameter, error) {
	var result struct {
		Bundle string `json:"bundle"`
	}
	if err := c.call(ctx, "get_bundle", "/bundle", nil, &result); err != nil {
		return nil, err
	}

	var pset []dataset.Parameter
	if err := json.Unmarshal([]byte(result.Bundle), &pset); err != nil {
		return nil, fmt.Errorf("solver get_bundle: decode parameter set: %w", err)
	}
	return pset, nil
}

// ComputeRequest carries the ephemeris parameters the model computation
// depends on.
type ComputeRequest struct {
	Period float64 `json:"period"`
	T0     float64 `json:"t0"`
}

// Compute runs the model computation and returns per-dataset model arrays.
func (c *Client) Compute(ctx context.Context, req ComputeRequest) (map[string]dataset.ModelValues, error) {
	var result struct {
		Model map[string]dataset.ModelValues `json:"model"`
	}
	if err := c.call(ctx, "run_compute", "/compute", req, &result); err != nil {
		return nil, err
	}
	return result.Model, nil
}

// FitRequest names the adjustable parameters and their step sizes for the
// remote solver run.
type FitRequest struct {
	Parameters []string  `json:"fit_parameters"`
	Steps      []float64 `json:"steps"`
}

// FitSolution is the solver's fitted result, index-aligned with the
// requested parameters.
type FitSolution struct {
	Parameters []string  `json:"fit_parameters"`
	Initial    []float64 `json:"initial_values"`
	Fitted     []float64 `json:"fitted_values"`
}

// RunSolver runs the remote fitting solver.
func (c *Client) RunSolver(ctx context.Context, req FitRequest) (FitSolution, error) {
	var result struct {
		Solution FitSolution `json:"solution"`
	}
	if err := c.call(ctx, "run_solver", "/solver", req, &result); err != nil {
		return FitSolution{}, err
	}
	return result.Solution, nil
}
