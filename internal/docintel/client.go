package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asqr-ai/docintel/internal/observability"
)

const defaultAPIVersion = "2024-11-30"

// PollPolicy bounds the wait-for-completion loop. The interval is fixed; the
// budget is the maximum number of poll attempts before Wait gives up with a
// TimeoutError.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// DefaultPollPolicy polls every 2 seconds for up to 150 attempts (~5 minutes),
// matching the service SDK's polling cadence.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Interval: 2 * time.Second, MaxAttempts: 150}
}

// SleepFunc blocks for the given duration or until the context is cancelled.
// Tests substitute a fake to make the poll loop deterministic.
type SleepFunc func(ctx context.Context, d time.Duration) error

func realSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config holds client configuration. Endpoint and Key are required.
type Config struct {
	Endpoint   string
	Key        string
	APIVersion string
	Timeout    time.Duration
	Poll       PollPolicy
	Logger     *observability.Logger
	Sleep      SleepFunc // nil means real time.Sleep
}

// Client calls the Document Intelligence analysis and model management APIs.
type Client struct {
	httpClient *http.Client
	endpoint   string
	key        string
	apiVersion string
	poll       PollPolicy
	sleep      SleepFunc
	log        *observability.Logger
}

// NewClient creates a client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	if cfg.Poll.Interval <= 0 || cfg.Poll.MaxAttempts <= 0 {
		cfg.Poll = DefaultPollPolicy()
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = realSleep
	}

	log := cfg.Logger
	if log == nil {
		log = observability.Nop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		key:        cfg.Key,
		apiVersion: cfg.APIVersion,
		poll:       cfg.Poll,
		sleep:      sleep,
		log:        log,
	}, nil
}

// AnalyzeOptions selects add-on features for an analysis request.
type AnalyzeOptions struct {
	Features []Feature
}

// BeginAnalyzeFile reads a local document and submits it for analysis with
// the named model. The returned Operation must be polled to completion.
func (c *Client) BeginAnalyzeFile(ctx context.Context, modelID, path string, opts AnalyzeOptions) (*Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidInputError{Path: path, Message: "cannot read document", Err: err}
	}
	if len(data) == 0 {
		return nil, &InvalidInputError{Path: path, Message: "document is empty"}
	}

	c.log.Info().
		Str("model_id", modelID).
		Str("path", path).
		Int("bytes", len(data)).
		Msg("submitting document for analysis")

	return c.submit(ctx, c.analyzeURL("documentModels", modelID, opts), data, contentTypeFor(path))
}

// BeginAnalyzeURL submits a document by its publicly reachable URL.
func (c *Client) BeginAnalyzeURL(ctx context.Context, modelID, docURL string, opts AnalyzeOptions) (*Operation, error) {
	body, err := json.Marshal(map[string]string{"urlSource": docURL})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.submit(ctx, c.analyzeURL("documentModels", modelID, opts), body, "application/json")
}

// BeginClassify submits a local document to a trained custom classifier.
func (c *Client) BeginClassify(ctx context.Context, classifierID, path string) (*Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidInputError{Path: path, Message: "cannot read document", Err: err}
	}

	c.log.Info().
		Str("classifier_id", classifierID).
		Str("path", path).
		Msg("submitting document for classification")

	return c.submit(ctx, c.analyzeURL("documentClassifiers", classifierID, AnalyzeOptions{}), data, contentTypeFor(path))
}

// submit posts the analyze request and wraps the Operation-Location header
// into an Operation handle.
func (c *Client) submit(ctx context.Context, reqURL string, body []byte, contentType string) (*Operation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Err: err}
	}

	if resp.StatusCode != http.StatusAccepted {
		return nil, c.submitError(resp.StatusCode, respBody)
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "response carries no Operation-Location header"}
	}

	return &Operation{client: c, url: opURL, status: StatusNotStarted}, nil
}

// submitError maps a non-202 submit response onto the error taxonomy.
func (c *Client) submitError(status int, body []byte) error {
	detail := decodeErrorDetail(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{StatusCode: status, Message: detail.Message}
	case status == http.StatusBadRequest:
		return &InvalidInputError{Message: detail.Message}
	default:
		return &ServiceError{StatusCode: status, Code: detail.Code, Message: detail.Message}
	}
}

func decodeErrorDetail(body []byte) ErrorDetail {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != nil {
		return *er.Error
	}
	return ErrorDetail{Message: strings.TrimSpace(string(body))}
}

// analyzeURL builds the :analyze URL for a model or classifier.
func (c *Client) analyzeURL(resource, id string, opts AnalyzeOptions) string {
	q := url.Values{}
	q.Set("api-version", c.apiVersion)
	if len(opts.Features) > 0 {
		names := make([]string, len(opts.Features))
		for i, f := range opts.Features {
			names[i] = string(f)
		}
		q.Set("features", strings.Join(names, ","))
	}
	return fmt.Sprintf("%s/documentintelligence/%s/%s:analyze?%s", c.endpoint, resource, url.PathEscape(id), q.Encode())
}

// managementURL builds a documentModels management URL.
func (c *Client) managementURL(pathParts ...string) string {
	q := url.Values{}
	q.Set("api-version", c.apiVersion)
	return fmt.Sprintf("%s/documentintelligence/%s?%s", c.endpoint, strings.Join(pathParts, "/"), q.Encode())
}

// contentTypeFor picks the upload content type from the file extension.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// doJSON performs an authenticated request and decodes a JSON response into
// out. Used by the management API calls, which complete synchronously.
func (c *Client) doJSON(ctx context.Context, method, reqURL string, reqBody any, out any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeErrorDetail(respBody)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return &AuthError{StatusCode: resp.StatusCode, Message: detail.Message}
		}
		return &ServiceError{StatusCode: resp.StatusCode, Code: detail.Code, Message: detail.Message}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
