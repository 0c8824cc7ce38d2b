package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/incentive-bridge/internal/domain"
	"github.com/xela07ax/incentive-bridge/internal/infra"
)

// Client — REST-клиент record store. Каждая операция — ровно один поход
// в апстрим: решение о том, фатальна ли ошибка, принимает вызывающий.
type Client struct {
	httpc  *http.Client
	apiURL string
	token  string
	baseID string
	table  string
	logger *zap.Logger
}

func NewClient(cfg infra.AirtableConfig, logger *zap.Logger) *Client {
	return &Client{
		httpc:  &http.Client{Timeout: 15 * time.Second},
		apiURL: cfg.APIURL,
		token:  cfg.Token,
		baseID: cfg.BaseID,
		table:  cfg.Table,
		logger: logger.Named("airtable"),
	}
}

type record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type patchRequest struct {
	Records []record `json:"records"`
}

// Fetch читает одну запись: GET {api}/{base}/{table}/{id}.
func (c *Client) Fetch(ctx context.Context, id string) (domain.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.apiURL, c.baseID, url.PathEscape(c.table), url.PathEscape(id))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Record{}, fmt.Errorf("fetch %s: %w", id, err)
	}

	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return domain.Record{}, fmt.Errorf("fetch %s: decode response: %w", id, err)
	}

	return domain.Record{ID: rec.ID, Fields: rec.Fields}, nil
}

// Patch обновляет поля записи: PATCH {api}/{base}/{table} c {"records": [...]}.
func (c *Client) Patch(ctx context.Context, id string, fields map[string]any) error {
	endpoint := fmt.Sprintf("%s/%s/%s", c.apiURL, c.baseID, url.PathEscape(c.table))

	payload := patchRequest{Records: []record{{ID: id, Fields: fields}}}
	if _, err := c.do(ctx, http.MethodPatch, endpoint, payload); err != nil {
		return fmt.Errorf("patch %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("record store error response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, &StoreError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
