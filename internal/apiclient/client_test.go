package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestGetJSON_DecodesAndSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("network"))
		assert.Equal(t, "secret", r.Header.Get("0x-api-key"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"value":"42"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		Name:    "test",
		BaseURL: srv.URL + "/",
		Headers: map[string]string{"0x-api-key": "secret"},
		Timeout: time.Second,
		Logger:  quietLogger(),
	})

	var out struct {
		Value string `json:"value"`
	}
	err := c.GetJSON(context.Background(), "/prices", url.Values{"network": {"1"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "42", out.Value)
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:      srv.URL,
		Timeout:      time.Second,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
		Logger:       quietLogger(),
	})

	var out map[string]interface{}
	require.NoError(t, c.GetJSON(context.Background(), "/", nil, &out))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestGetJSON_DoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason":"bad token"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		Name:         "zeroex",
		BaseURL:      srv.URL,
		Timeout:      time.Second,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
		Logger:       quietLogger(),
	})

	var out map[string]interface{}
	err := c.GetJSON(context.Background(), "/", nil, &out)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "bad token")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGetJSON_MaxRetriesExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:      srv.URL,
		Timeout:      time.Second,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
		Logger:       quietLogger(),
	})

	var out map[string]interface{}
	err := c.GetJSON(context.Background(), "/", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestGetJSON_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: time.Second, Logger: quietLogger()})
	var out map[string]interface{}
	err := c.GetJSON(context.Background(), "/", nil, &out)
	assert.ErrorContains(t, err, "failed to decode")
}
