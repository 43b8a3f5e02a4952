package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/pkg/metrics"
)

// Проверка, что Client удовлетворяет порту BackendClient.
var _ ports.BackendClient = (*Client)(nil)

// TokenSource — источник bearer-токена. Читается заново на каждый запрос,
// чтобы только что завершившийся login был виден уже на следующем вызове.
type TokenSource func(ctx context.Context) string

// TokenFromStorage — TokenSource поверх долговременного хранилища сессии.
func TokenFromStorage(storage ports.SessionStorage, log ports.Logger) TokenSource {
	return func(ctx context.Context) string {
		token, _, err := storage.Load(ctx)
		if err != nil {
			log.Warnf(ctx, "token load failed: %v", err)
			return ""
		}
		return token
	}
}

// Client — HTTP-адаптер REST-бэкенда логистики.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	log        ports.Logger
}

// NewClient — конструктор. baseURL без завершающего слэша, timeout — на весь запрос.
func NewClient(baseURL string, timeout time.Duration, token TokenSource, log ports.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if token == nil {
		token = func(context.Context) string { return "" }
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		log:        log,
	}
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", nil, reg, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrder) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, "create_order", http.MethodPost, "/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, query domain.ListQuery) (*domain.OrderPage, error) {
	query = query.Normalize()

	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("limit", strconv.Itoa(query.Limit))
	if query.Status != "" {
		params.Set("status", string(query.Status))
	}
	if query.SenderName != "" {
		params.Set("senderName", query.SenderName)
	}
	if query.RecipientName != "" {
		params.Set("recipientName", query.RecipientName)
	}

	var page domain.OrderPage
	if err := c.do(ctx, "list_orders", http.MethodGet, "/orders", params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, "get_order", http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) TrackOrder(ctx context.Context, trackingNumber string) (*domain.Order, error) {
	var order domain.Order
	path := "/orders/track/" + url.PathEscape(trackingNumber)
	if err := c.do(ctx, "track_order", http.MethodGet, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	body := struct {
		Status domain.OrderStatus `json:"status"`
	}{Status: status}

	var order domain.Order
	path := "/orders/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, "update_status", http.MethodPatch, path, nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	path := "/orders/" + url.PathEscape(id) + "/cancel"
	if err := c.do(ctx, "cancel_order", http.MethodPatch, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// do — общий путь запроса: сериализация тела, bearer-токен, разбор конверта.
// out может быть nil, если данные ответа не нужны.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("%s: do request: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	var env envelope
	if unmarshalErr := json.Unmarshal(raw, &env); unmarshalErr != nil {
		// Конверт не разобрался: для 2xx это ошибка протокола,
		// для остальных — строим структурную ошибку по HTTP-статусу.
		if resp.StatusCode < http.StatusBadRequest {
			metrics.BackendRequests.WithLabelValues(op, "bad_envelope").Inc()
			return fmt.Errorf("%s: decode response: %w", op, unmarshalErr)
		}
		metrics.BackendRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
		return &Error{StatusCode: resp.StatusCode, Kind: http.StatusText(resp.StatusCode)}
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{StatusCode: resp.StatusCode, Kind: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			if env.Error.StatusCode != 0 {
				apiErr.StatusCode = env.Error.StatusCode
			}
			if env.Error.Kind != "" {
				apiErr.Kind = env.Error.Kind
			}
			apiErr.Messages = env.Error.Message
			apiErr.Path = env.Error.Path
		}
		if len(apiErr.Messages) == 0 {
			apiErr.Messages = env.Message
		}
		metrics.BackendRequests.WithLabelValues(op, strconv.Itoa(apiErr.StatusCode)).Inc()
		c.log.Warnf(ctx, "backend %s failed status=%d took=%s", op, apiErr.StatusCode, time.Since(start))
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			metrics.BackendRequests.WithLabelValues(op, "bad_payload").Inc()
			return fmt.Errorf("%s: decode payload: %w", op, err)
		}
	}

	metrics.BackendRequests.WithLabelValues(op, "ok").Inc()
	c.log.Infof(ctx, "backend %s ok took=%s", op, time.Since(start))
	return nil
}
