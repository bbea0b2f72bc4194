package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/fitbot/internal/errors"
	"github.com/diogo/fitbot/internal/models"
)

func newTestClient(t *testing.T, mock *MockHttpClient, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(mock)}, opts...)
	client, err := NewClient("http://localhost:8000/", opts...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		opts        []ClientOption
		wantErr     bool
		wantBaseURL string
		wantTimeout time.Duration
	}{
		{
			name:        "defaults",
			baseURL:     "http://localhost:8000",
			wantBaseURL: "http://localhost:8000",
			wantTimeout: DefaultTimeout,
		},
		{
			name:        "trailing slash trimmed",
			baseURL:     "https://fit.example.com/",
			wantBaseURL: "https://fit.example.com",
			wantTimeout: DefaultTimeout,
		},
		{
			name:        "empty falls back to default",
			baseURL:     "",
			wantBaseURL: models.DefaultBaseURL,
			wantTimeout: DefaultTimeout,
		},
		{
			name:        "custom timeout",
			baseURL:     "http://localhost:8000",
			opts:        []ClientOption{WithTimeout(5 * time.Second)},
			wantBaseURL: "http://localhost:8000",
			wantTimeout: 5 * time.Second,
		},
		{
			name:    "missing scheme",
			baseURL: "localhost:8000",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.opts...)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.BaseURL() != tt.wantBaseURL {
				t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), tt.wantBaseURL)
			}
			if client.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", client.Timeout(), tt.wantTimeout)
			}
			if client.GetHTTPClient() == nil {
				t.Error("expected default HTTP client to be created")
			}
		})
	}
}

func TestClient_Ask_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer":"Do squats."}`), 200)
	client := newTestClient(t, mock, WithUserAgent("fitbot-test"))

	answer, err := client.Ask(context.Background(), "Buatkan program workout untuk pemula")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if answer != "Do squats." {
		t.Errorf("Ask() = %q, want %q", answer, "Do squats.")
	}

	req := mock.LastRequest
	if req == nil {
		t.Fatal("expected a request to be sent")
	}
	if req.Method != fhttp.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if got := req.URL.String(); got != "http://localhost:8000/chat" {
		t.Errorf("URL = %s", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := req.Header.Get("User-Agent"); got != "fitbot-test" {
		t.Errorf("User-Agent = %q", got)
	}

	var body models.ChatRequest
	if err := json.Unmarshal(mock.LastBody, &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if body.Question != "Buatkan program workout untuk pemula" {
		t.Errorf("question = %q", body.Question)
	}

	if !mock.Response.Body.(*MockResponseBody).closed {
		t.Error("response body was not closed")
	}
}

func TestClient_Ask_Failures(t *testing.T) {
	tests := []struct {
		name       string
		mock       *MockHttpClient
		wantReason apierrors.Reason
		wantStatus int
	}{
		{
			name:       "transport error",
			mock:       NewMockHttpClientWithError(errors.New("connection refused")),
			wantReason: apierrors.ReasonTransport,
		},
		{
			name:       "deadline exceeded",
			mock:       NewMockHttpClientWithError(context.DeadlineExceeded),
			wantReason: apierrors.ReasonTimeout,
		},
		{
			name:       "server error",
			mock:       NewMockHttpClient([]byte(`Internal Server Error`), 500),
			wantReason: apierrors.ReasonStatus,
			wantStatus: 500,
		},
		{
			name:       "not found",
			mock:       NewMockHttpClient([]byte(`{"detail":"Not Found"}`), 404),
			wantReason: apierrors.ReasonStatus,
			wantStatus: 404,
		},
		{
			name:       "invalid json",
			mock:       NewMockHttpClient([]byte(`<html>oops</html>`), 200),
			wantReason: apierrors.ReasonMalformed,
		},
		{
			name:       "missing answer",
			mock:       NewMockHttpClient([]byte(`{"reply":"hi"}`), 200),
			wantReason: apierrors.ReasonMalformed,
		},
		{
			name:       "answer not a string",
			mock:       NewMockHttpClient([]byte(`{"answer":42}`), 200),
			wantReason: apierrors.ReasonMalformed,
		},
		{
			name:       "answer null",
			mock:       NewMockHttpClient([]byte(`{"answer":null}`), 200),
			wantReason: apierrors.ReasonMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)

			answer, err := client.Ask(context.Background(), "test")
			if err == nil {
				t.Fatalf("expected error, got answer %q", answer)
			}
			if !apierrors.IsAnswerRequestFailed(err) {
				t.Errorf("expected AnswerRequestFailed, got %T: %v", err, err)
			}
			if got := apierrors.GetReason(err); got != tt.wantReason {
				t.Errorf("reason = %q, want %q", got, tt.wantReason)
			}
			if got := apierrors.GetHTTPStatus(err); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if got := apierrors.GetEndpoint(err); got != "http://localhost:8000/chat" {
				t.Errorf("endpoint = %q", got)
			}
		})
	}
}

func TestClient_Ask_ErrorBodyTruncated(t *testing.T) {
	big := make([]byte, maxErrorBody*2)
	for i := range big {
		big[i] = 'x'
	}
	client := newTestClient(t, NewMockHttpClient(big, 502))

	_, err := client.Ask(context.Background(), "test")
	if got := len(apierrors.GetResponseBody(err)); got != maxErrorBody {
		t.Errorf("error body length = %d, want %d", got, maxErrorBody)
	}
}

func TestClient_Ask_EmptyQuestion(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer":"x"}`), 200)
	client := newTestClient(t, mock)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := client.Ask(context.Background(), q); !errors.Is(err, apierrors.ErrEmptyQuestion) {
			t.Errorf("Ask(%q) error = %v, want ErrEmptyQuestion", q, err)
		}
	}
	if mock.Calls != 0 {
		t.Errorf("expected no HTTP calls, got %d", mock.Calls)
	}
}

func TestClient_Ask_Timeout(t *testing.T) {
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	client := newTestClient(t, mock, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := client.Ask(context.Background(), "slow")
	if !apierrors.IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestClient_Ask_Canceled(t *testing.T) {
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	client := newTestClient(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Ask(ctx, "q")
	if got := apierrors.GetReason(err); got != apierrors.ReasonTransport {
		t.Errorf("reason = %q, want transport for a canceled context", got)
	}
}

func TestClient_Close(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer":"x"}`), 200)
	client := newTestClient(t, mock)

	client.Close()
	client.Close()

	if !client.IsClosed() {
		t.Error("IsClosed() = false after Close()")
	}
	if !mock.IdleClosed {
		t.Error("expected idle connections to be closed")
	}
	if _, err := client.Ask(context.Background(), "q"); !apierrors.IsAnswerRequestFailed(err) {
		t.Errorf("Ask() after Close() error = %v", err)
	}
	if mock.Calls != 0 {
		t.Errorf("expected no HTTP calls after Close(), got %d", mock.Calls)
	}
}

func TestClient_Health(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"status":"healthy","timestamp":"2025-01-01T00:00:00"}`), 200)
	client := newTestClient(t, mock)

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("Status = %q", status.Status)
	}
	if status.Timestamp != "2025-01-01T00:00:00" {
		t.Errorf("Timestamp = %q", status.Timestamp)
	}
	if !status.Healthy() {
		t.Error("Healthy() = false")
	}
	if mock.LastRequest.Method != fhttp.MethodGet {
		t.Errorf("Method = %s, want GET", mock.LastRequest.Method)
	}
	if got := mock.LastRequest.URL.Path; got != "/health" {
		t.Errorf("Path = %s", got)
	}
	if got := mock.LastRequest.Header.Get("Content-Type"); got != "" {
		t.Errorf("GET should not carry Content-Type, got %q", got)
	}
}

func TestClient_Health_Failure(t *testing.T) {
	client := newTestClient(t, NewMockHttpClient([]byte(`down`), 503))

	if _, err := client.Health(context.Background()); apierrors.GetHTTPStatus(err) != 503 {
		t.Errorf("Health() error = %v, want status 503", err)
	}
}

func TestHealthStatus_Healthy(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"healthy", true},
		{"ok", true},
		{"", true},
		{"degraded", false},
	}

	for _, tt := range tests {
		h := &HealthStatus{Status: tt.status}
		if got := h.Healthy(); got != tt.want {
			t.Errorf("Healthy(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestMockClient(t *testing.T) {
	mock := &MockClient{AnswerVal: "ok"}

	answer, err := mock.Ask(context.Background(), "one")
	if err != nil || answer != "ok" {
		t.Errorf("Ask() = %q, %v", answer, err)
	}

	mock.AskFunc = func(ctx context.Context, q string) (string, error) {
		return "echo: " + q, nil
	}
	answer, _ = mock.Ask(context.Background(), "two")
	if answer != "echo: two" {
		t.Errorf("Ask() with AskFunc = %q", answer)
	}

	if mock.AskCalls() != 2 {
		t.Errorf("AskCalls() = %d, want 2", mock.AskCalls())
	}
	if qs := mock.Questions(); len(qs) != 2 || qs[0] != "one" || qs[1] != "two" {
		t.Errorf("Questions() = %v", qs)
	}
	if mock.BaseURL() != "http://mock" {
		t.Errorf("BaseURL() = %s", mock.BaseURL())
	}
}

func TestMockClient_Release(t *testing.T) {
	mock := &MockClient{AnswerVal: "late", Release: make(chan struct{})}
	started := mock.Started()

	done := make(chan string)
	go func() {
		answer, _ := mock.Ask(context.Background(), "wait")
		done <- answer
	}()

	<-started
	select {
	case <-done:
		t.Fatal("Ask returned before release")
	default:
	}

	close(mock.Release)
	if got := <-done; got != "late" {
		t.Errorf("Ask() = %q, want %q", got, "late")
	}
}
