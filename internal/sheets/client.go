package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrRejected means the endpoint answered but reported success=false.
var ErrRejected = errors.New("spreadsheet rejected row")

// Result is the endpoint's reply.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Client struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

func NewClient(url string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		url:  url,
		http: httpClient,
		log:  log.With(zap.String("client", "sheets")),
	}
}

// Append posts row as JSON and decodes the reply.
func (c *Client) Append(ctx context.Context, row Row) (Result, error) {
	body, err := json.Marshal(row)
	if err != nil {
		return Result{}, fmt.Errorf("encode row %s: %w", row.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post row %s: %w", row.ID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("post row %s: unexpected status %d", row.ID, resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("decode reply: %w", err)
	}
	if !res.Success {
		return res, fmt.Errorf("%w: %s", ErrRejected, res.Error)
	}

	c.log.Debug("Row appended", zap.String("booking_id", row.ID), zap.String("message", res.Message))
	return res, nil
}
