package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BuildMode selects the custom model training algorithm.
type BuildMode string

const (
	BuildModeTemplate BuildMode = "template"
	BuildModeNeural   BuildMode = "neural"
)

// BuildRequest describes a custom model training job. The labeled documents
// live in an Azure Blob container reachable through the SAS URL.
type BuildRequest struct {
	ModelID         string     `json:"modelId"`
	Description     string     `json:"description,omitempty"`
	BuildMode       BuildMode  `json:"buildMode"`
	AzureBlobSource BlobSource `json:"azureBlobSource"`
}

// BlobSource points at the training container.
type BlobSource struct {
	ContainerURL string `json:"containerUrl"`
	Prefix       string `json:"prefix,omitempty"`
}

// ModelInfo describes a trained model, including its field schema per
// document type.
type ModelInfo struct {
	ModelID         string                 `json:"modelId"`
	Description     string                 `json:"description,omitempty"`
	Status          string                 `json:"status,omitempty"`
	CreatedDateTime time.Time              `json:"createdDateTime"`
	APIVersion      string                 `json:"apiVersion,omitempty"`
	DocTypes        map[string]DocTypeInfo `json:"docTypes,omitempty"`
}

// DocTypeInfo is the schema of one document type a model can extract.
type DocTypeInfo struct {
	BuildMode       BuildMode              `json:"buildMode,omitempty"`
	Description     string                 `json:"description,omitempty"`
	FieldSchema     map[string]FieldSchema `json:"fieldSchema,omitempty"`
	FieldConfidence map[string]float64     `json:"fieldConfidence,omitempty"`
}

// FieldSchema describes one extractable field.
type FieldSchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type modelList struct {
	Value    []ModelInfo `json:"value"`
	NextLink string      `json:"nextLink,omitempty"`
}

// buildEnvelope is the poll response for a model build operation; the model
// lands in result rather than analyzeResult.
type buildEnvelope struct {
	Status           OperationStatus `json:"status"`
	PercentCompleted int             `json:"percentCompleted,omitempty"`
	Result           *ModelInfo      `json:"result,omitempty"`
	Error            *ErrorDetail    `json:"error,omitempty"`
}

// BuildOperation is the handle to an in-flight model training job. It follows
// the same poll contract as Operation: terminal states are cached and polling
// past them is a no-op.
type BuildOperation struct {
	client *Client
	url    string

	status  OperationStatus
	percent int
	model   *ModelInfo
	detail  *ErrorDetail
}

// BeginBuildModel starts training a custom model from labeled blob data.
func (c *Client) BeginBuildModel(ctx context.Context, req BuildRequest) (*BuildOperation, error) {
	if req.ModelID == "" {
		return nil, fmt.Errorf("model id is required")
	}
	if req.BuildMode == "" {
		req.BuildMode = BuildModeNeural
	}
	if req.AzureBlobSource.ContainerURL == "" {
		return nil, fmt.Errorf("blob container URL is required")
	}

	c.log.Info().
		Str("model_id", req.ModelID).
		Str("build_mode", string(req.BuildMode)).
		Msg("starting model build")

	reqURL := c.managementURL("documentModels:build")
	op, err := c.submitManagement(ctx, reqURL, req)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// submitManagement posts a management request that answers with an
// Operation-Location header.
func (c *Client) submitManagement(ctx context.Context, reqURL string, body any) (*BuildOperation, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		return nil, c.submitError(resp.StatusCode, respBody)
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: "response carries no Operation-Location header"}
	}

	return &BuildOperation{client: c, url: opURL, status: StatusNotStarted}, nil
}

// Status returns the last observed status.
func (o *BuildOperation) Status() OperationStatus { return o.status }

// Percent returns the last reported completion percentage.
func (o *BuildOperation) Percent() int { return o.percent }

// Poll fetches the current build state. Terminal states are cached.
func (o *BuildOperation) Poll(ctx context.Context) (OperationStatus, error) {
	if o.status.Terminal() {
		return o.status, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		return o.status, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", o.client.key)

	resp, err := o.client.httpClient.Do(req)
	if err != nil {
		return o.status, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return o.status, &TransientError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return o.status, pollError(resp.StatusCode, body)
	}

	var env buildEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return o.status, &TransientError{Err: err}
	}

	o.status = env.Status
	o.percent = env.PercentCompleted
	if env.Status == StatusSucceeded {
		o.model = env.Result
	}
	if env.Status == StatusFailed {
		o.detail = env.Error
	}
	return o.status, nil
}

// Wait polls until the build finishes or the attempt budget runs out. Neural
// builds routinely take tens of minutes, so callers usually pass a widened
// policy through the client configuration.
func (o *BuildOperation) Wait(ctx context.Context) (*ModelInfo, error) {
	policy := o.client.poll

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if err := o.client.sleep(ctx, policy.Interval); err != nil {
			return nil, err
		}

		status, err := o.Poll(ctx)
		if err != nil {
			var transient *TransientError
			if errors.As(err, &transient) {
				o.client.log.Warn().Err(err).Int("attempt", attempt+1).Msg("build poll failed, retrying")
				continue
			}
			return nil, err
		}

		if status.Terminal() {
			return o.Result()
		}
	}

	return nil, &TimeoutError{Attempts: policy.MaxAttempts}
}

// Result returns the trained model, NotReadyError before success, or the
// provider's failure as a ServiceError.
func (o *BuildOperation) Result() (*ModelInfo, error) {
	switch o.status {
	case StatusSucceeded:
		return o.model, nil
	case StatusFailed:
		detail := o.detail
		if detail == nil {
			detail = &ErrorDetail{Message: "model build failed without detail"}
		}
		return nil, &ServiceError{Code: detail.Code, Message: detail.Message}
	default:
		return nil, &NotReadyError{Status: o.status}
	}
}

// GetModel fetches a model's schema and metadata.
func (c *Client) GetModel(ctx context.Context, modelID string) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.doJSON(ctx, http.MethodGet, c.managementURL("documentModels", modelID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListModels returns every model in the resource, following pagination.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo

	next := c.managementURL("documentModels")
	for next != "" {
		var page modelList
		if err := c.doJSON(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		models = append(models, page.Value...)
		next = page.NextLink
	}
	return models, nil
}

// DeleteModel removes a custom model from the resource.
func (c *Client) DeleteModel(ctx context.Context, modelID string) error {
	return c.doJSON(ctx, http.MethodDelete, c.managementURL("documentModels", modelID), nil, nil)
}
