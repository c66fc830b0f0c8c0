// Package client talks to the expense API and keeps a renderable view of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/spendwise/internal"
	"github.com/frahmantamala/spendwise/internal/expense"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from its {"error": ...} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient targets baseURL, e.g. http://localhost:5000 or
// http://localhost:5000/api.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Info returns the greeting served at the API root.
func (c *APIClient) Info(ctx context.Context) (string, error) {
	var resp expense.MessageResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *APIClient) ListExpenses(ctx context.Context) ([]expense.Expense, error) {
	var list []expense.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []expense.Expense{}
	}
	return list, nil
}

func (c *APIClient) CreateExpense(ctx context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	var resp struct {
		expense.Expense
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/expenses", dto, &resp); err != nil {
		return nil, err
	}
	created := resp.Expense
	return &created, nil
}

func (c *APIClient) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *APIClient) Stats(ctx context.Context) ([]expense.CategoryTotal, error) {
	var totals []expense.CategoryTotal
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody internal.Response
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
