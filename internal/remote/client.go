package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronoforge/internal/constants"
	apperrors "github.com/julianstephens/chronoforge/internal/errors"
	"github.com/julianstephens/chronoforge/internal/logger"
	"github.com/julianstephens/chronoforge/internal/models"
)

// Client is the HTTP implementation of Source. A Client is safe for
// concurrent use once constructed; its fields must not be changed afterwards.
type Client struct {
	BaseURL    string
	Token      TokenProvider
	HTTPClient *http.Client
}

// NewClient creates a client whose requests time out after timeout, or
// after DefaultTimeout when timeout is not positive. token may be nil, in
// which case requests are sent without credentials.
func NewClient(baseURL string, token TokenProvider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type signalsResponse struct {
	Signals []models.Signal `json:"signals"`
}

type tasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

type checkInsResponse struct {
	CheckIns []models.CheckIn `json:"check_ins"`
}

func (c *Client) CurrentSchedule(ctx context.Context) (models.ScheduleDocument, error) {
	var doc models.ScheduleDocument
	err := c.do(ctx, http.MethodGet, "plan/current", nil, &doc)
	return doc, err
}

func (c *Client) Signals(ctx context.Context) ([]models.Signal, error) {
	var resp signalsResponse
	if err := c.do(ctx, http.MethodGet, "gmail/signals", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Signals, nil
}

func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var resp tasksResponse
	if err := c.do(ctx, http.MethodGet, "canvas/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) Insights(ctx context.Context) (models.Insights, error) {
	var resp models.Insights
	err := c.do(ctx, http.MethodGet, "plan/insights", nil, &resp)
	return resp, err
}

func (c *Client) SubmitCheckIn(ctx context.Context, body models.CheckInCreate) (models.CheckInResult, error) {
	var resp models.CheckInResult
	err := c.do(ctx, http.MethodPost, "checkins", body, &resp)
	return resp, err
}

func (c *Client) ListCheckIns(ctx context.Context) ([]models.CheckIn, error) {
	var resp checkInsResponse
	if err := c.do(ctx, http.MethodGet, "checkins", nil, &resp); err != nil {
		return nil, err
	}
	return resp.CheckIns, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.Token != nil {
		if token, ok := c.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, &apperrors.NetworkError{Err: err})
	}
	defer resp.Body.Close()

	logger.Debug("Remote call finished", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, endpoint, apperrors.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %w", method, endpoint, &apperrors.APIError{StatusCode: resp.StatusCode, Body: string(b)})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: %w", method, endpoint, &apperrors.DecodeError{Err: err})
		}
	}
	return nil
}
