package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/fitbot/internal/errors"
	"github.com/diogo/fitbot/internal/models"
)

const (
	opAsk    = "ask"
	opHealth = "health check"
)

// Ask sends question to POST /chat and returns the answer field
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apierrors.ErrEmptyQuestion
	}

	endpoint := c.endpoint(models.ChatPath)

	payload, err := json.Marshal(models.ChatRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.do(ctx, opAsk, http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}

	return parseAnswer(endpoint, body)
}

// parseAnswer extracts the answer string from a /chat response body
func parseAnswer(endpoint string, body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewMalformedError(opAsk, endpoint, "response is not valid JSON")
	}

	answer := gjson.GetBytes(body, "answer")
	if !answer.Exists() {
		return "", apierrors.NewMalformedError(opAsk, endpoint, "missing answer field")
	}
	if answer.Type != gjson.String {
		return "", apierrors.NewMalformedError(opAsk, endpoint, fmt.Sprintf("answer is %s, want string", answer.Type))
	}

	return answer.String(), nil
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte) ([]byte, error) {
	if c.IsClosed() {
		return nil, apierrors.NewTransportError(op, endpoint, errors.New("client is closed"))
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	if payload == nil {
		req.Header.Del("Content-Type")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, op, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(ctx, op, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody := body
		if len(errorBody) > maxErrorBody {
			errorBody = errorBody[:maxErrorBody]
		}
		return nil, apierrors.NewStatusError(op, endpoint, resp.StatusCode, string(errorBody))
	}

	return body, nil
}

// classifyTransportError maps a round-trip failure to timeout or transport
func classifyTransportError(ctx context.Context, op, endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || os.IsTimeout(err) {
		return apierrors.NewTimeoutError(op, endpoint, err)
	}
	return apierrors.NewTransportError(op, endpoint, err)
}
