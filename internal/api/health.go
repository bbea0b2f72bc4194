package api

import (
	"context"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	"github.com/diogo/fitbot/internal/models"
)

// HealthStatus is the answer service's reply to GET /health
type HealthStatus struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp,omitempty"`
	Latency   time.Duration `json:"latency"`
	Raw       string        `json:"-"`
}

// Healthy reports whether the service described itself as healthy. A
// missing status field counts as healthy since the request itself succeeded.
func (h *HealthStatus) Healthy() bool {
	return h.Status == "" || h.Status == "healthy" || h.Status == "ok"
}

// Health probes GET /health
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	endpoint := c.endpoint(models.HealthPath)

	start := time.Now()
	body, err := c.do(ctx, opHealth, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	status := &HealthStatus{
		Latency: time.Since(start),
		Raw:     string(body),
	}
	if gjson.ValidBytes(body) {
		status.Status = gjson.GetBytes(body, "status").String()
		status.Timestamp = gjson.GetBytes(body, "timestamp").String()
	}

	return status, nil
}
