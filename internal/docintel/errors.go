package docintel

import "fmt"

// AuthError indicates rejected or missing credentials. The user has to fix
// their configuration; retrying will not help.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Message)
}

// InvalidInputError indicates the submitted document could not be read or was
// rejected by the service as unsupported.
type InvalidInputError struct {
	Path    string
	Message string
	Err     error
}

func (e *InvalidInputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid input %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// TransientError indicates a network or service hiccup during polling. The
// poll loop retries these until the attempt budget runs out.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ServiceError carries a definitive failure reported by the provider. The
// provider's code and message are surfaced verbatim.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("service error (status %d): %s", e.StatusCode, e.Message)
}

// TimeoutError indicates the poll attempt budget was exhausted before the
// operation reached a terminal state.
type TimeoutError struct {
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation still running after %d poll attempts; try again later", e.Attempts)
}

// NotReadyError indicates Result was called before the operation succeeded.
type NotReadyError struct {
	Status OperationStatus
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("result not available: operation status is %q", e.Status)
}
