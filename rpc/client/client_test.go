package client

import (
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			body, _ := ioutil.ReadAll(r.Body)
			_, _ = w.Write([]byte(r.Method + ":" + string(body)))
		case "/missing":
			http.Error(w, `{"error":"key not found"}`, http.StatusNotFound)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
}

func TestConnectionGetPost(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	conn := NewConnection(srv.URL+"/", time.Second)
	assert.Equal(t, srv.URL, conn.Endpoint())

	body, err := conn.Get("/ok")
	require.NoError(t, err)
	assert.Equal(t, "GET:", string(body))

	body, err = conn.Post("/ok", false, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `POST:{"a":1}`, string(body))

	body, err = conn.Post("/ok", true, []byte(`{"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, `DELETE:{"b":2}`, string(body))
}

func TestConnectionNotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	conn := NewConnection(srv.URL, time.Second)
	_, err := conn.Get("/missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.True(t, connErr.NotFound())
	assert.Equal(t, http.StatusNotFound, connErr.StatusCode)
	assert.Contains(t, connErr.Error(), "key not found")

	_, err = conn.Get("/other")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, http.StatusInternalServerError, connErr.StatusCode)
}

func TestConnectionTransportError(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	conn := NewConnection(strings.TrimPrefix(url, "http://"), 200*time.Millisecond)
	assert.True(t, strings.HasPrefix(conn.Endpoint(), "http://"))

	_, err := conn.Get("/ok")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, 0, connErr.StatusCode)
	assert.Error(t, connErr.Err)
}
