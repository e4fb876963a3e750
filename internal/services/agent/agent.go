package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

const healthTimeout = 2 * time.Second

// Client проксирует запросы к сервису диагностики (RAG)
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logging.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.WithPrefix("AGENT"),
	}
}

func NewAgentClient(cfg *config.AppConfig, logger *logging.Logger) interfaces.AgentClient {
	return NewClient(cfg.Agent.URL, time.Duration(cfg.Agent.TimeoutMs)*time.Millisecond, logger)
}

func (c *Client) Configured() bool { return c.baseURL != "" }

// Loaded опрашивает /api/health сервиса. Любая ошибка означает false.
func (c *Client) Loaded(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Agent health check failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var body struct {
		AgentLoaded bool `json:"agent_loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.AgentLoaded
}

func (c *Client) Troubleshoot(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apperrors.Validationf("query is required")
	}
	if !c.Configured() {
		return "", fmt.Errorf("%w: troubleshooting agent is not configured", apperrors.ErrUnavailable)
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/troubleshoot", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Agent unreachable", "error", err)
		return "", fmt.Errorf("%w: troubleshooting agent unreachable: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(body))
		var fastapiErr struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &fastapiErr) == nil && fastapiErr.Detail != "" {
			detail = fastapiErr.Detail
		}
		return "", fmt.Errorf("%w: agent answered %d: %s", apperrors.ErrUnavailable, resp.StatusCode, detail)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: malformed agent response: %v", apperrors.ErrUnavailable, err)
	}
	return out.Response, nil
}
