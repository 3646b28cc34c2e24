// internal/square/client.go
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"golang.org/x/oauth2"
)

const (
	productionBaseURL = "https://connect.squareup.com"
	sandboxBaseURL    = "https://connect.squareupsandbox.com"

	requestTimeout = 10 * time.Second
)

// Client talks to the Square v2 REST API. All requests carry the
// configured bearer token via an oauth2 static token source.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewProvider returns the demo provider when demo mode is on, otherwise
// a live Square client.
func NewProvider(cfg config.SquareConfig, demoMode bool) Provider {
	if demoMode {
		return NewDemoProvider()
	}

	return NewClient(cfg)
}

func NewClient(cfg config.SquareConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = sandboxBaseURL
		if cfg.Environment == "production" {
			baseURL = productionBaseURL
		}
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type inventoryCountPayload struct {
	CatalogObjectID string `json:"catalog_object_id"`
	LocationID      string `json:"location_id"`
	Quantity        string `json:"quantity"`
	CalculatedAt    string `json:"calculated_at"`
}

type catalogObjectPayload struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	ItemData struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CategoryID  string `json:"category_id"`
	} `json:"item_data"`
}

type orderLineItemPayload struct {
	CatalogObjectID string `json:"catalog_object_id"`
	Quantity        string `json:"quantity"`
}

type orderPayload struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	LineItems []orderLineItemPayload `json:"line_items"`
}

func (c *Client) GetInventoryCounts(ctx context.Context, locationID string) ([]domain.InventoryCount, error) {
	body := map[string]any{"location_ids": []string{locationID}}

	var response struct {
		Counts []inventoryCountPayload `json:"counts"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/inventory/counts/batch-retrieve", body, &response); err != nil {
		return nil, fmt.Errorf("retrieve inventory counts: %w", err)
	}

	counts := make([]domain.InventoryCount, 0, len(response.Counts))
	for _, raw := range response.Counts {
		quantity, err := strconv.ParseFloat(raw.Quantity, 64)
		if err != nil {
			return nil, fmt.Errorf("parse inventory quantity %q: %w", raw.Quantity, err)
		}

		calculatedAt, _ := time.Parse(time.RFC3339, raw.CalculatedAt)

		counts = append(counts, domain.InventoryCount{
			ProductID:    raw.CatalogObjectID,
			LocationID:   raw.LocationID,
			Quantity:     int(quantity),
			CalculatedAt: calculatedAt,
		})
	}

	return counts, nil
}

func (c *Client) GetCatalogItems(ctx context.Context, locationID string) ([]domain.CatalogItem, error) {
	var response struct {
		Objects []catalogObjectPayload `json:"objects"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/catalog/list?types=ITEM", nil, &response); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(response.Objects))
	for _, raw := range response.Objects {
		items = append(items, domain.CatalogItem{
			ID:          raw.ID,
			Name:        raw.ItemData.Name,
			Description: raw.ItemData.Description,
			CategoryID:  raw.ItemData.CategoryID,
		})
	}

	return items, nil
}

func (c *Client) GetSalesHistory(ctx context.Context, locationID string, days int) ([]domain.SalesRecord, error) {
	startAt := time.Now().AddDate(0, 0, -days)
	body := map[string]any{
		"location_ids": []string{locationID},
		"query": map[string]any{
			"filter": map[string]any{
				"date_time_filter": map[string]any{
					"created_at": map[string]any{
						"start_at": startAt.Format(time.RFC3339),
					},
				},
			},
		},
	}

	var response struct {
		Orders []orderPayload `json:"orders"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/orders/search", body, &response); err != nil {
		return nil, fmt.Errorf("search orders: %w", err)
	}

	records := make([]domain.SalesRecord, 0, len(response.Orders))
	for _, raw := range response.Orders {
		record := domain.SalesRecord{
			ID:        raw.ID,
			CreatedAt: raw.CreatedAt,
			LineItems: make([]domain.LineItem, 0, len(raw.LineItems)),
		}
		for _, line := range raw.LineItems {
			quantity, err := strconv.ParseFloat(line.Quantity, 64)
			if err != nil {
				return nil, fmt.Errorf("parse line item quantity %q: %w", line.Quantity, err)
			}
			record.LineItems = append(record.LineItems, domain.LineItem{
				ProductID: line.CatalogObjectID,
				Quantity:  int(quantity),
			})
		}
		records = append(records, record)
	}

	return records, nil
}

func (c *Client) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var response struct {
		Locations []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Status  string `json:"status"`
			Address struct {
				AddressLine1 string `json:"address_line_1"`
				Locality     string `json:"locality"`
				AdminArea    string `json:"administrative_district_level_1"`
				PostalCode   string `json:"postal_code"`
			} `json:"address"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"locations"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/locations", nil, &response); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	locations := make([]domain.Location, 0, len(response.Locations))
	for _, raw := range response.Locations {
		locations = append(locations, domain.Location{
			ID:               raw.ID,
			Name:             raw.Name,
			Address:          raw.Address.AddressLine1,
			City:             raw.Address.Locality,
			State:            raw.Address.AdminArea,
			ZipCode:          raw.Address.PostalCode,
			SquareLocationID: raw.ID,
			Active:           raw.Status == "ACTIVE",
			CreatedAt:        raw.CreatedAt,
		})
	}

	return locations, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
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
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("square api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("square api status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
