package docintel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// opScript serves the submit endpoint plus a scripted sequence of poll
// responses at /op. Each poll consumes the next step; the last step repeats.
type opScript struct {
	steps []func(w http.ResponseWriter)
	polls atomic.Int32
}

func (s *opScript) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Header().Set("Operation-Location", "http://"+r.Host+"/op")
			w.WriteHeader(http.StatusAccepted)
			return
		}
		n := int(s.polls.Add(1)) - 1
		if n >= len(s.steps) {
			n = len(s.steps) - 1
		}
		s.steps[n](w)
	})
}

func stepStatus(status OperationStatus) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(operationEnvelope{Status: status})
	}
}

func stepSucceeded(result *AnalyzeResult) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(operationEnvelope{Status: StatusSucceeded, AnalyzeResult: result})
	}
}

func stepFailed(detail *ErrorDetail) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(operationEnvelope{Status: StatusFailed, Error: detail})
	}
}

func stepHTTP(status int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: &ErrorDetail{Code: "err", Message: "boom"}})
	}
}

func beginOp(t *testing.T, script *opScript, poll PollPolicy) (*Operation, func()) {
	t.Helper()
	srv := httptest.NewServer(script.handler())
	client := newTestClient(t, srv.URL, poll)
	path := writeTempDoc(t, "doc.pdf", []byte("%PDF"))

	op, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})
	require.NoError(t, err)
	return op, srv.Close
}

// Running n times then succeeded means Wait performs exactly n+1 polls.
func TestWaitPollCount(t *testing.T) {
	const running = 3
	script := &opScript{}
	for i := 0; i < running; i++ {
		script.steps = append(script.steps, stepStatus(StatusRunning))
	}
	script.steps = append(script.steps, stepSucceeded(&AnalyzeResult{ModelID: ModelPrebuiltLayout, Content: "hello"}))

	op, closeSrv := beginOp(t, script, PollPolicy{Interval: time.Millisecond, MaxAttempts: 10})
	defer closeSrv()

	result, err := op.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Content)
	assert.Equal(t, int32(running+1), script.polls.Load())
}

// Wait gives up with a TimeoutError after exactly MaxAttempts polls when the
// operation never leaves running.
func TestWaitTimeoutAtBudget(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){stepStatus(StatusRunning)}}

	op, closeSrv := beginOp(t, script, PollPolicy{Interval: time.Millisecond, MaxAttempts: 5})
	defer closeSrv()

	_, err := op.Wait(context.Background())
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 5, timeout.Attempts)
	assert.Equal(t, int32(5), script.polls.Load())
}

// Once terminal, further polls return the cached status without any request.
func TestPollTerminalIsIdempotent(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){
		stepSucceeded(&AnalyzeResult{Content: "done"}),
	}}

	op, closeSrv := beginOp(t, script, PollPolicy{Interval: time.Millisecond, MaxAttempts: 3})
	defer closeSrv()

	status, err := op.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, status)
	require.Equal(t, int32(1), script.polls.Load())

	for i := 0; i < 3; i++ {
		status, err = op.Poll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, status)
	}
	assert.Equal(t, int32(1), script.polls.Load())

	first, err := op.Result()
	require.NoError(t, err)
	second, err := op.Result()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResultBeforeTerminal(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){stepStatus(StatusRunning)}}

	op, closeSrv := beginOp(t, script, DefaultPollPolicy())
	defer closeSrv()

	_, err := op.Result()
	var notReady *NotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, StatusNotStarted, notReady.Status)

	_, err = op.Poll(context.Background())
	require.NoError(t, err)
	_, err = op.Result()
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, StatusRunning, notReady.Status)
}

func TestWaitFailedOperation(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){
		stepStatus(StatusRunning),
		stepFailed(&ErrorDetail{Code: "InvalidContent", Message: "corrupt document"}),
	}}

	op, closeSrv := beginOp(t, script, PollPolicy{Interval: time.Millisecond, MaxAttempts: 10})
	defer closeSrv()

	_, err := op.Wait(context.Background())
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "InvalidContent", svcErr.Code)
	assert.Equal(t, "corrupt document", svcErr.Message)

	// Failure is terminal and stays cached.
	_, err = op.Result()
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, int32(2), script.polls.Load())
}

// Throttling and server errors consume attempts and are retried; the loop
// recovers when the service comes back.
func TestWaitRetriesTransientPollErrors(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){
		stepHTTP(http.StatusTooManyRequests),
		stepHTTP(http.StatusServiceUnavailable),
		stepSucceeded(&AnalyzeResult{Content: "recovered"}),
	}}

	op, closeSrv := beginOp(t, script, PollPolicy{Interval: time.Millisecond, MaxAttempts: 10})
	defer closeSrv()

	result, err := op.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Content)
	assert.Equal(t, int32(3), script.polls.Load())
}

// An auth failure during polling aborts immediately instead of burning the
// remaining budget.
func TestWaitAbortsOnAuthError(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){
		stepHTTP(http.StatusUnauthorized),
	}}

	op, closeSrv := beginOp(t, script, PollPolicy{Interval: time.Millisecond, MaxAttempts: 10})
	defer closeSrv()

	_, err := op.Wait(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(1), script.polls.Load())
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	script := &opScript{steps: []func(http.ResponseWriter){stepStatus(StatusRunning)}}
	srv := httptest.NewServer(script.handler())
	defer srv.Close()

	client, err := NewClient(Config{
		Endpoint: srv.URL,
		Key:      "test-key",
		Poll:     PollPolicy{Interval: time.Hour, MaxAttempts: 10},
	})
	require.NoError(t, err)

	path := writeTempDoc(t, "doc.pdf", []byte("%PDF"))
	op, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = op.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
