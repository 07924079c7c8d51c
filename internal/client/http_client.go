package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/gitvault/internal/utils"
	"github.com/MKhiriev/gitvault/models"
)

// HTTPClientConfig configures the HTTP implementation of [DaemonClient].
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpDaemonClient struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string
}

func NewHTTPDaemonClient(cfg HTTPClientConfig) DaemonClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:8537"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := utils.NewHTTPClient()
	cli.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	cli.SetTimeout(cfg.Timeout)

	return &httpDaemonClient{client: cli}
}

func (h *httpDaemonClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpDaemonClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpDaemonClient) Unlock(ctx context.Context, passphrase string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.UnlockRequest{Passphrase: passphrase}).
		Post("/api/session/unlock")
	if err != nil {
		return fmt.Errorf("unlock request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("unlock parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

func (h *httpDaemonClient) Lookup(ctx context.Context, url string) (*models.CredentialRecord, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(h.Token()).
		SetQueryParam("url", url).
		Get("/api/credentials/")
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusNoContent {
		return nil, nil
	}

	var record models.CredentialRecord
	if err := json.Unmarshal(resp.Body(), &record); err != nil {
		return nil, fmt.Errorf("lookup decode response: %w", err)
	}

	return &record, nil
}

func (h *httpDaemonClient) Save(ctx context.Context, req models.SaveCredentialRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(h.Token()).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/credentials/")
	if err != nil {
		return fmt.Errorf("save request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpDaemonClient) Remove(ctx context.Context, url string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(h.Token()).
		SetQueryParam("url", url).
		Delete("/api/credentials/")
	if err != nil {
		return fmt.Errorf("remove request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpDaemonClient) Version(ctx context.Context) (map[string]string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/version/")
	if err != nil {
		return nil, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var payload map[string]string
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("version decode response: %w", err)
	}

	return payload, nil
}
