// Package backend is the HTTP client for the external order store. All
// transport failures are converted into the package's error taxonomy at
// this boundary; raw HTTP errors never reach the cart or display logic.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"camellia-order-gateway/internal/menu"

	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchMenu returns the menu with option and note catalogs already
// normalized into ordered lists.
func (c *Client) FetchMenu(ctx context.Context) ([]menu.Item, error) {
	var items []menu.Item
	if err := c.getJSON(ctx, "/api/menu", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListOrders reads all orders from the store. The endpoint does not filter
// server-side, so a non-empty status narrows the decoded list here before
// it is returned.
func (c *Client) ListOrders(ctx context.Context, status string) ([]Order, error) {
	var orders []Order
	if err := c.getJSON(ctx, "/api/all_orders", &orders); err != nil {
		return nil, err
	}
	if status == "" {
		return orders, nil
	}

	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// UpdateOrderStatus requests a forward status transition for one order.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (Order, error) {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return Order{}, &TransitionError{OrderID: orderID, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/api/all_orders/%d", c.baseURL, orderID), bytes.NewReader(body))
	if err != nil {
		return Order{}, &TransitionError{OrderID: orderID, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("%w: %w", &TransitionError{OrderID: orderID}, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Order{}, &TransitionError{
			OrderID:    orderID,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}

	var updated Order
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return Order{}, &TransitionError{OrderID: orderID, StatusCode: resp.StatusCode, Message: err.Error()}
	}
	return updated, nil
}

// CreateOrder submits a new order. On rejection the returned
// SubmissionError carries the server-provided message when there is one.
func (c *Client) CreateOrder(ctx context.Context, orderReq CreateOrderRequest) (Order, error) {
	body, err := json.Marshal(orderReq)
	if err != nil {
		return Order{}, &SubmissionError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, &SubmissionError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("%w: %w", &SubmissionError{}, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Order{}, &SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}

	var created Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Order{}, &SubmissionError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	c.logger.Info("order submitted",
		zap.Int64("orderId", created.OrderID),
		zap.String("tableNo", created.TableNo),
		zap.Float64("total", created.Total))
	return created, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrFetchFailed, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error response
// body, accepting either {"message": ...} or plain text.
func serverMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}
