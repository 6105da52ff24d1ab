package docintel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Operation is the handle to an in-flight analysis job. Its status moves
// monotonically toward a terminal state; once succeeded or failed the cached
// status and result never change and further polls are no-ops.
type Operation struct {
	client *Client
	url    string

	status OperationStatus
	result *AnalyzeResult
	detail *ErrorDetail
}

// Status returns the last observed status without touching the network.
func (o *Operation) Status() OperationStatus { return o.status }

// Poll fetches the current operation state. After a terminal state it returns
// the cached status immediately.
func (o *Operation) Poll(ctx context.Context) (OperationStatus, error) {
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

	var env operationEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return o.status, &TransientError{Err: err}
	}

	o.status = env.Status
	if env.Status == StatusSucceeded {
		o.result = env.AnalyzeResult
	}
	if env.Status == StatusFailed {
		o.detail = env.Error
	}
	return o.status, nil
}

// Wait polls at the client's fixed interval until the operation reaches a
// terminal state or the attempt budget runs out. Transient errors consume an
// attempt and are retried; definitive errors abort immediately.
func (o *Operation) Wait(ctx context.Context) (*AnalyzeResult, error) {
	policy := o.client.poll

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if err := o.client.sleep(ctx, policy.Interval); err != nil {
			return nil, err
		}

		status, err := o.Poll(ctx)
		if err != nil {
			var transient *TransientError
			if errors.As(err, &transient) {
				o.client.log.Warn().Err(err).Int("attempt", attempt+1).Msg("poll failed, retrying")
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

// Result returns the analysis payload. It fails with NotReadyError unless the
// operation has succeeded, and with ServiceError when the provider reported
// failure.
func (o *Operation) Result() (*AnalyzeResult, error) {
	switch o.status {
	case StatusSucceeded:
		return o.result, nil
	case StatusFailed:
		detail := o.detail
		if detail == nil {
			detail = &ErrorDetail{Message: "analysis failed without detail"}
		}
		return nil, &ServiceError{Code: detail.Code, Message: detail.Message}
	default:
		return nil, &NotReadyError{Status: o.status}
	}
}

// pollError maps a non-200 poll response. Throttling and server-side errors
// are transient; auth failures and the rest are definitive.
func pollError(status int, body []byte) error {
	detail := decodeErrorDetail(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{StatusCode: status, Message: detail.Message}
	case status == http.StatusTooManyRequests || status >= 500:
		return &TransientError{Err: &ServiceError{StatusCode: status, Code: detail.Code, Message: detail.Message}}
	default:
		return &ServiceError{StatusCode: status, Code: detail.Code, Message: detail.Message}
	}
}
