// Package client provides the http connection used to talk to the REST gateway.
package client

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bluzelle/blzgo/log"
)

const (
	maxIdleConns        int = 100
	maxIdleConnsPerHost int = 10
	maxConnsPerHost     int = 50
	idleConnTimeout     int = 90

	// DefaultTimeout is used when NewConnection is given a zero timeout
	DefaultTimeout = 60 * time.Second
)

// ErrNotFound is the error variant of a 404 response
var ErrNotFound = errors.New("not found")

// ConnectionError is a transport failure or a non 2xx response.
// It unwraps to ErrNotFound for 404 responses.
type ConnectionError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v %v: status %v: %s", e.Method, e.URL, e.StatusCode, strings.TrimSpace(string(e.Body)))
	}
	return fmt.Sprintf("%v %v: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns ErrNotFound for 404 responses, the transport error otherwise
func (e *ConnectionError) Unwrap() error {
	if e.NotFound() {
		return ErrNotFound
	}
	return e.Err
}

// NotFound reports whether the gateway answered 404
func (e *ConnectionError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound is err a not found connection error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Connection sends GET / POST / DELETE requests to one gateway endpoint.
// Requests are never retried.
type Connection struct {
	endpoint string
	client   *resty.Client
}

// NewConnection creates a connection, endpoint without scheme gets http://
func NewConnection(endpoint string, timeout time.Duration) *Connection {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	httpClient := createHTTPClient()
	httpClient.Timeout = timeout
	rc := resty.NewWithClient(httpClient).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Connection{endpoint: endpoint, client: rc}
}

// createHTTPClient for connection re-use
func createHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxConnsPerHost:     maxConnsPerHost,
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     time.Duration(idleConnTimeout) * time.Second,
		},
	}
}

// Endpoint returns the base url
func (c *Connection) Endpoint() string {
	return c.endpoint
}

// Get sends a GET request to endpoint+path
func (c *Connection) Get(path string) ([]byte, error) {
	url := c.endpoint + path
	resp, err := c.client.R().Get(url)
	return handleResponse(http.MethodGet, url, resp, err)
}

// Post sends body as json with POST, or with DELETE if isDelete is set
func (c *Connection) Post(path string, isDelete bool, body []byte) ([]byte, error) {
	url := c.endpoint + path
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if isDelete {
		resp, err := req.Delete(url)
		return handleResponse(http.MethodDelete, url, resp, err)
	}
	resp, err := req.Post(url)
	return handleResponse(http.MethodPost, url, resp, err)
}

func handleResponse(method, url string, resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		log.Debug("gateway request failed", "method", method, "url", url, "err", err)
		return nil, &ConnectionError{Method: method, URL: url, Err: err}
	}
	status := resp.StatusCode()
	if status < 200 || status > 299 {
		log.Debug("gateway request bad status", "method", method, "url", url, "status", status)
		return nil, &ConnectionError{
			Method:     method,
			URL:        url,
			StatusCode: status,
			Body:       resp.Body(),
			Err:        fmt.Errorf("status %v", status),
		}
	}
	log.Trace("gateway request success", "method", method, "url", url, "status", status)
	return resp.Body(), nil
}
