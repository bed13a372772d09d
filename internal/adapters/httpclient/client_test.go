package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "zagreb", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"name":"Zagreb"}`))
	}))
	defer srv.Close()

	c := New(time.Second, WithHeader("Authorization", "secret"), WithRetry(4, time.Millisecond))

	var out struct {
		Name string `json:"name"`
	}
	err := c.GetJSON(context.Background(), srv.URL, url.Values{"q": {"zagreb"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Zagreb", out.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(time.Second, WithRetry(4, time.Millisecond))

	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL, nil, &out)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Equal(t, "bad key", se.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostFormSendsEncodedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "[out:json];", r.PostForm.Get("data"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := New(time.Second).PostForm(context.Background(), srv.URL, url.Values{"data": {"[out:json];"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestDoWithRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(time.Second)
	_, err := c.DoWithRetry(ctx, func() (*http.Request, error) {
		t.Fatal("request must not be built for a cancelled context")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyRingRotates(t *testing.T) {
	ring := NewKeyRing("a", "", "b")
	assert.Equal(t, 2, ring.Len())
	assert.Equal(t, []string{"a", "b", "a"}, []string{ring.Next(), ring.Next(), ring.Next()})

	assert.Equal(t, "", NewKeyRing().Next())
}
