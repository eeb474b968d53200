// Package highlight talks to the service that picks a featured product per
// category.
package highlight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flujo/pos-system/internal/core/domain"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 64 << 10
)

var (
	ErrBadStatus      = errors.New("highlight: unexpected status")
	ErrUnknownProduct = errors.New("highlight: suggested product was not offered")
)

// Config holds the endpoint settings. APIKey is sent as a bearer token when set.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client posts the category's products and decodes the suggestion strictly.
type Client struct {
	cfg      Config
	http     *http.Client
	validate *validator.Validate
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		validate: validator.New(),
	}
}

type productPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type requestPayload struct {
	CategoryName string           `json:"categoryName"`
	Products     []productPayload `json:"products"`
}

// SuggestHighlight returns nil, nil when the service answers 204 No Content.
func (c *Client) SuggestHighlight(ctx context.Context, categoryName string, products []domain.Product) (*domain.Highlight, error) {
	payload := requestPayload{CategoryName: categoryName, Products: make([]productPayload, len(products))}
	offered := make(map[string]struct{}, len(products))
	for i, p := range products {
		payload.Products[i] = productPayload{ID: p.ID, Name: p.Name, Price: p.Price.StringFixed(2)}
		offered[p.ID] = struct{}{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("highlight: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("highlight: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	var h domain.Highlight
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("highlight: decode response: %w", err)
	}
	if err := c.validate.Struct(h); err != nil {
		return nil, fmt.Errorf("highlight: invalid response: %w", err)
	}
	if _, ok := offered[h.ProductID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, h.ProductID)
	}
	return &h, nil
}

// Nop never suggests anything. It is used when no endpoint is configured.
type Nop struct{}

func (Nop) SuggestHighlight(context.Context, string, []domain.Product) (*domain.Highlight, error) {
	return nil, nil
}
