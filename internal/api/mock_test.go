package api

import (
	"bytes"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
)

// MockResponseBody is a response body that records whether it was closed
type MockResponseBody struct {
	*bytes.Reader
	closed bool
}

func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{Reader: bytes.NewReader(data)}
}

func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHttpClient fakes the tls-client for Client. Only Do and
// CloseIdleConnections are implemented; any other method panics through the
// nil embedded interface.
type MockHttpClient struct {
	tls_client.HttpClient

	Response *fhttp.Response
	Err      error

	// DoFunc, when set, replaces Response/Err
	DoFunc func(req *fhttp.Request) (*fhttp.Response, error)

	LastRequest *fhttp.Request
	LastBody    []byte
	Calls       int
	IdleClosed  bool
}

func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Calls++
	m.LastRequest = req
	if req.Body != nil {
		m.LastBody, _ = io.ReadAll(req.Body)
	}
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) CloseIdleConnections() {
	m.IdleClosed = true
}

// NewMockHttpClient answers every request with body and statusCode
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError fails every request with err
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}
