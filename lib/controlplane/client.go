// Copyright 2026 Gage Technologies
// SPDX-License-Identifier: Apache-2.0

package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gage-technologies/gigo-ws/lib/netutil"
	"github.com/gage-technologies/gigo-ws/lib/version"
)

// DefaultBaseURL is the control plane's address inside the workspace
// network.
const DefaultBaseURL = "http://gigo.gage.intranet"

// API paths, relative to the base URL.
const (
	initPath        = "/api/internal/ws/init"
	initStepPath    = "/api/internal/ws/init-step"
	initFailurePath = "/api/internal/ws/init-failure"
	extensionPath   = "/api/internal/ws/ext"
)

// ErrNoSecret is returned by authenticated calls made without a secret.
var ErrNoSecret = errors.New("control plane secret is not known")

// HTTPError is a non-2xx response.
type HTTPError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Options configures New.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// Transport replaces http.DefaultTransport when set.
	Transport http.RoundTripper
}

// Client calls the control plane.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New creates a Client for baseURL. An empty baseURL uses
// DefaultBaseURL.
func New(baseURL string, options Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   options.Timeout,
			Transport: options.Transport,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: version.UserAgent("gigo-ws-init"),
	}
}

// BaseURL returns the address requests are sent to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Initialize registers the workspace and returns the response object's
// fields undecoded. The caller extracts the secret and splits out the
// git credentials.
func (client *Client) Initialize(ctx context.Context, coderID string) (map[string]json.RawMessage, error) {
	response, err := client.post(ctx, initPath, initRequest{CoderID: coderID})
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	defer response.Body.Close()

	if err := checkStatus("initialize", response); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := netutil.DecodeResponse(response.Body, &fields); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("initialize: response is not a JSON object")
	}
	return fields, nil
}

// AdvanceStep records that step completed.
func (client *Client) AdvanceStep(ctx context.Context, coderID, secret string, step int) error {
	if secret == "" {
		return fmt.Errorf("advance step %d: %w", step, ErrNoSecret)
	}
	return client.acknowledge(ctx, "advance step", initStepPath, stepRequest{
		CoderID: coderID,
		Secret:  secret,
		Step:    step,
	})
}

// RelayFailure reports a failed step.
func (client *Client) RelayFailure(ctx context.Context, report FailureReport) error {
	if report.Secret == "" {
		return fmt.Errorf("relay failure for step %d: %w", report.Step, ErrNoSecret)
	}
	return client.acknowledge(ctx, "relay failure", initFailurePath, report)
}

// FetchExtension downloads the vendor editor extension to destination.
// The body is streamed to a temporary file in the destination's
// directory and renamed into place once complete, so a failed download
// never leaves a truncated file at destination. A zstd or lz4
// Content-Encoding is decoded while streaming.
func (client *Client) FetchExtension(ctx context.Context, workspaceID, secret, destination string) error {
	if secret == "" {
		return fmt.Errorf("fetch extension: %w", ErrNoSecret)
	}
	response, err := client.post(ctx, extensionPath, extensionRequest{
		WorkspaceID: workspaceID,
		Secret:      secret,
	})
	if err != nil {
		return fmt.Errorf("fetch extension: %w", err)
	}
	defer response.Body.Close()

	if err := checkStatus("fetch extension", response); err != nil {
		return err
	}

	body, release, err := netutil.DecodeContent(response.Body, response.Header.Get("Content-Encoding"))
	if err != nil {
		return fmt.Errorf("fetch extension: %w", err)
	}
	defer release()

	if err := writeAtomic(destination, body); err != nil {
		return fmt.Errorf("fetch extension: %w", err)
	}
	return nil
}

// acknowledge posts a request whose response body carries nothing the
// provisioner needs.
func (client *Client) acknowledge(ctx context.Context, operation, path string, request any) error {
	response, err := client.post(ctx, path, request)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer response.Body.Close()

	if err := checkStatus(operation, response); err != nil {
		return err
	}
	netutil.Drain(response.Body)
	return nil
}

func (client *Client) post(ctx context.Context, path string, request any) (*http.Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("User-Agent", client.userAgent)
	return client.httpClient.Do(httpRequest)
}

func checkStatus(operation string, response *http.Response) error {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return &HTTPError{
		Operation:  operation,
		StatusCode: response.StatusCode,
		Body:       netutil.ErrorBody(response.Body),
	}
}

// writeAtomic copies source to a temporary file next to destination and
// renames it over destination.
func writeAtomic(destination string, source io.Reader) error {
	directory := filepath.Dir(destination)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(destination)+".*.part")
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	temporaryPath := temporary.Name()
	committed := false
	defer func() {
		if !committed {
			temporary.Close()
			os.Remove(temporaryPath)
		}
	}()

	if _, err := io.Copy(temporary, source); err != nil {
		return fmt.Errorf("downloading: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing download file: %w", err)
	}
	if err := os.Chmod(temporaryPath, 0o644); err != nil {
		return fmt.Errorf("setting download file mode: %w", err)
	}
	if err := os.Rename(temporaryPath, destination); err != nil {
		return fmt.Errorf("installing download: %w", err)
	}
	committed = true
	return nil
}
