package docintel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noSleep replaces the real poll delay so tests run instantly.
func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func newTestClient(t *testing.T, serverURL string, poll PollPolicy) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Endpoint: serverURL,
		Key:      "test-key",
		Poll:     poll,
		Sleep:    noSleep,
	})
	require.NoError(t, err)
	return client
}

func writeTempDoc(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     Config{Endpoint: "https://example.cognitiveservices.azure.com", Key: "k"},
			wantErr: false,
		},
		{
			name:    "missing endpoint",
			cfg:     Config{Key: "k"},
			wantErr: true,
		},
		{
			name:    "missing key",
			cfg:     Config{Endpoint: "https://example.cognitiveservices.azure.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, defaultAPIVersion, client.apiVersion)
			assert.Equal(t, DefaultPollPolicy(), client.poll)
		})
	}
}

func TestAnalyzeURLIncludesFeatures(t *testing.T) {
	client, err := NewClient(Config{Endpoint: "https://example.azure.com", Key: "k"})
	require.NoError(t, err)

	u := client.analyzeURL("documentModels", ModelPrebuiltLayout, AnalyzeOptions{
		Features: []Feature{FeatureKeyValuePairs, FeatureBarcodes},
	})
	assert.Contains(t, u, "/documentintelligence/documentModels/prebuilt-layout:analyze")
	assert.Contains(t, u, "api-version="+defaultAPIVersion)
	assert.Contains(t, u, "features=keyValuePairs%2Cbarcodes")

	plain := client.analyzeURL("documentClassifiers", "my-classifier", AnalyzeOptions{})
	assert.Contains(t, plain, "/documentintelligence/documentClassifiers/my-classifier:analyze")
	assert.NotContains(t, plain, "features=")
}

func TestBeginAnalyzeFileSubmits(t *testing.T) {
	var gotPath, gotContentType, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Header().Set("Operation-Location", "http://"+r.Host+"/op/123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPollPolicy())
	path := writeTempDoc(t, "invoice.pdf", []byte("%PDF-1.7 test"))

	op, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/documentintelligence/documentModels/prebuilt-layout:analyze", gotPath)
	assert.Equal(t, "application/pdf", gotContentType)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, StatusNotStarted, op.Status())
}

func TestBeginAnalyzeFileInvalidInput(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid", DefaultPollPolicy())

	t.Run("missing file", func(t *testing.T) {
		_, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout,
			filepath.Join(t.TempDir(), "absent.pdf"), AnalyzeOptions{})
		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeTempDoc(t, "empty.pdf", nil)
		_, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})
		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, path, invalid.Path)
	})
}

// A rejected submit must not touch the operation endpoint at all.
func TestSubmitAuthFailureDoesNotPoll(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			polls.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: &ErrorDetail{
			Code:    "401",
			Message: "Access denied due to invalid subscription key",
		}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPollPolicy())
	path := writeTempDoc(t, "doc.pdf", []byte("%PDF"))

	_, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Message, "invalid subscription key")
	assert.Equal(t, int32(0), polls.Load())
}

func TestSubmitErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "bad request is invalid input",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var invalid *InvalidInputError
				require.ErrorAs(t, err, &invalid)
			},
		},
		{
			name:   "forbidden is auth",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
			},
		},
		{
			name:   "server error is service error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var svcErr *ServiceError
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(errorResponse{Error: &ErrorDetail{Code: "X", Message: "nope"}})
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL, DefaultPollPolicy())
			path := writeTempDoc(t, "doc.pdf", []byte("%PDF"))

			_, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestSubmitMissingOperationLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPollPolicy())
	path := writeTempDoc(t, "doc.pdf", []byte("%PDF"))

	_, err := client.BeginAnalyzeFile(context.Background(), ModelPrebuiltLayout, path, AnalyzeOptions{})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
}

func TestBeginAnalyzeURL(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Operation-Location", "http://"+r.Host+"/op/1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPollPolicy())
	_, err := client.BeginAnalyzeURL(context.Background(), ModelPrebuiltRead,
		"https://example.com/doc.pdf", AnalyzeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/doc.pdf", gotBody["urlSource"])
}

func TestBeginClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documentintelligence/documentClassifiers/asqr-classifier:analyze", r.URL.Path)
		w.Header().Set("Operation-Location", "http://"+r.Host+"/op/1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, DefaultPollPolicy())
	path := writeTempDoc(t, "mixed.pdf", []byte("%PDF"))

	op, err := client.BeginClassify(context.Background(), "asqr-classifier", path)
	require.NoError(t, err)
	assert.Equal(t, StatusNotStarted, op.Status())
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"scan.pdf", "application/pdf"},
		{"photo.JPG", "image/jpeg"},
		{"page.jpeg", "image/jpeg"},
		{"shot.png", "image/png"},
		{"fax.tiff", "image/tiff"},
		{"old.bmp", "image/bmp"},
		{"unknown.dat", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contentTypeFor(tt.path), tt.path)
	}
}
