package baserow

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
)

// maxResponseSize limits how much of an upstream body is read.
const maxResponseSize = 1 << 20

// Errors for Baserow configuration
var (
	ErrMissingAPIToken = errors.New("baserow: api token is required")
	ErrMissingTableID  = errors.New("baserow: table id is required")
)

// Config holds the settings needed to write rows to one table.
type Config struct {
	APIURL   string
	APIToken string
	TableID  string
}

// Validate checks that the credentials are present.
func (c Config) Validate() error {
	if c.APIToken == "" {
		return ErrMissingAPIToken
	}
	if c.TableID == "" {
		return ErrMissingTableID
	}
	return nil
}

// Row is the subset of a created row this service reads back. ID is kept as
// sent by Baserow, whatever its JSON type.
type Row struct {
	ID json.RawMessage `json:"id"`
}

// IDString renders the id for logs and messages. String ids are unquoted.
func (r Row) IDString() string {
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}
	return string(r.ID)
}

// APIError is returned when Baserow answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("baserow: HTTP %d", e.StatusCode)
}

// Client creates rows in a Baserow table.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient returns a client for the configured table. A nil httpClient uses
// http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Validate reports missing credentials without touching the network.
func (c *Client) Validate() error {
	return c.cfg.Validate()
}

// CreateRow posts fields as a new row, keyed by user field names.
func (c *Client) CreateRow(ctx context.Context, fields interface{}) (*Row, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("baserow: marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rowsURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("baserow: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("baserow: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("baserow: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var row Row
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("baserow: decode row: %w", err)
	}
	return &row, nil
}

func (c *Client) rowsURL() string {
	base := strings.TrimRight(c.cfg.APIURL, "/")
	return fmt.Sprintf("%s/api/database/rows/table/%s/?user_field_names=true", base, url.PathEscape(c.cfg.TableID))
}
