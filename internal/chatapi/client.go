package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"minichat/internal/domain"
)

// ErrTransport agrupa fallas de red y respuestas que no se pueden decodificar.
var ErrTransport = errors.New("chat api transport failure")

// API define las dos llamadas que hace el cliente del chat.
type API interface {
	PostMessage(ctx context.Context, message, userID string) (MessageResponse, error)
	History(ctx context.Context, userID string) (HistoryResponse, error)
}

// MessageResponse es la respuesta de POST /api/message.
type MessageResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// HistoryItem es un mensaje previo devuelto por GET /api/history.
type HistoryItem struct {
	Text   string        `json:"text"`
	Sender domain.Sender `json:"sender"`
	TS     string        `json:"ts,omitempty"`
}

// HistoryResponse es la respuesta de GET /api/history.
// History queda en nil cuando el servidor no manda la lista.
type HistoryResponse struct {
	OK      bool          `json:"ok"`
	History []HistoryItem `json:"history"`
	Error   string        `json:"error,omitempty"`
}

type messageRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// HTTPClient implementa API contra el servidor del chat.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye el cliente. timeout 0 significa sin límite.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) PostMessage(ctx context.Context, message, userID string) (MessageResponse, error) {
	bodyBytes, err := json.Marshal(messageRequest{Message: message, UserID: userID})
	if err != nil {
		return MessageResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/message", bytes.NewReader(bodyBytes))
	if err != nil {
		return MessageResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out MessageResponse
	if err := c.doJSON(req, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) History(ctx context.Context, userID string) (HistoryResponse, error) {
	endpoint := c.baseURL + "/api/history?user_id=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("create request: %w", err)
	}

	var out HistoryResponse
	if err := c.doJSON(req, &out); err != nil {
		return HistoryResponse{}, err
	}
	return out, nil
}

// doJSON envía la request y decodifica el cuerpo sin importar el status:
// el servidor responde {"ok":false,...} también en los 4xx.
func (c *HTTPClient) doJSON(req *http.Request, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("chat api request failed", append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: do request: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("chat api read failed", append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	fields = append(fields,
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if bytes.Equal(bytes.TrimSpace(respBody), []byte("null")) {
		c.logger.Warn("chat api null body", fields...)
		return fmt.Errorf("%w: null response body", ErrTransport)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Warn("chat api invalid json", append(fields, zap.Error(err))...)
		return fmt.Errorf("%w: unmarshal response: %v", ErrTransport, err)
	}

	c.logger.Debug("chat api request", fields...)
	return nil
}
