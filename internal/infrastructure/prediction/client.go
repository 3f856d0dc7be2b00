// Package prediction talks to the external activity classifier.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable wraps every failure to obtain a prediction from the collaborator.
var ErrUnavailable = errors.New("prediction service unavailable")

// Request is the classifier input. Distance is sent as 0 when unknown.
type Request struct {
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
	Calories float64 `json:"calories"`
}

type Result struct {
	PredictedActivity string   `json:"predictedActivity"`
	Confidence        *float64 `json:"confidence,omitempty"`
	IsMLPrediction    bool     `json:"isMLPrediction"`
}

type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

// Predict posts req to the classifier and returns its label.
func (c *Client) Predict(ctx context.Context, req Request) (*Result, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, upstreamMessage(res, body))
	}

	var out Result
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(out.PredictedActivity) == "" {
		return nil, fmt.Errorf("%w: invalid response", ErrUnavailable)
	}
	out.IsMLPrediction = true
	return &out, nil
}

func upstreamMessage(res *http.Response, body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return fmt.Sprintf("status %d", res.StatusCode)
}
