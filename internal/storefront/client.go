// Package storefront talks to the storefront HTTP API that serves the product
// catalog (GET products/{id}) and stock levels (GET stock/{id}).
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrEmptyResponse    = errors.New("empty response")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	currency currency.Unit
}

// NewClient builds a client for the API at baseURL. Prices in the catalog carry
// no currency, so every product is tagged with unit.
func NewClient(baseURL string, httpClient *http.Client, unit currency.Unit) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:  u,
		http:     httpClient,
		currency: unit,
	}, nil
}

type productResponse struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type stockResponse struct {
	ID     int64 `json:"id"`
	Amount *int  `json:"amount"`
}

func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	var resp *productResponse
	if err := c.getJSON(ctx, "products/"+formatID(id), &resp); err != nil {
		return domain.Product{}, err
	}

	if resp == nil || resp.ID == 0 {
		return domain.Product{}, fmt.Errorf("product[%d]: %w", id, ErrEmptyResponse)
	}

	return domain.Product{
		ID:    domain.ProductID(resp.ID),
		Title: resp.Title,
		Image: resp.Image,
		Price: domain.Money{Amount: resp.Price, Currency: c.currency},
	}, nil
}

func (c *Client) GetStock(ctx context.Context, id domain.ProductID) (domain.StockInfo, error) {
	var resp *stockResponse
	if err := c.getJSON(ctx, "stock/"+formatID(id), &resp); err != nil {
		return domain.StockInfo{}, err
	}

	if resp == nil || resp.Amount == nil {
		return domain.StockInfo{}, fmt.Errorf("stock[%d]: %w", id, ErrEmptyResponse)
	}

	return domain.StockInfo{
		ProductID: id,
		Available: *resp.Amount,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: %w", path, ErrEmptyResponse)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: %w: %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("GET %s: %w", path, ErrEmptyResponse)
		}
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

func formatID(id domain.ProductID) string {
	return strconv.FormatInt(int64(id), 10)
}
