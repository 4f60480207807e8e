package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/infrastructure/config"
)

// ShopifyAdapter implements the VendorPlatform port against the Shopify
// Admin REST API. Pagination is cursor based: the next page's page_info
// token arrives in the Link response header with rel="next".
type ShopifyAdapter struct {
	client     *resty.Client
	pageSize   int
	configured bool
	logger     *zap.Logger
}

// NewShopifyAdapter creates a new ShopifyAdapter from upstream
// configuration. Missing credentials surface as ErrMissingCredentials
// on the first fetch, so an unconfigured development instance can still
// boot and serve everything except sync triggers.
func NewShopifyAdapter(cfg config.UpstreamConfig, logger *zap.Logger) *ShopifyAdapter {
	pageSize := cfg.PageSize
	if pageSize < 1 || pageSize > integration.MaxPageSize {
		pageSize = integration.MaxPageSize
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/admin/api/" + cfg.APIVersion).
		SetHeader("X-Shopify-Access-Token", cfg.AccessToken).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(cfg.RetryMaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &ShopifyAdapter{
		client:     client,
		pageSize:   pageSize,
		configured: cfg.BaseURL != "" && cfg.AccessToken != "",
		logger:     logger,
	}
}

type inventoryLevelsEnvelope struct {
	InventoryLevels []struct {
		InventoryItemID int64 `json:"inventory_item_id"`
		LocationID      int64 `json:"location_id"`
		Available       int64 `json:"available"`
	} `json:"inventory_levels"`
}

type productsEnvelope struct {
	Products []json.RawMessage `json:"products"`
}

type shopifyProduct struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Vendor   string `json:"vendor"`
	Variants []shopifyVariant `json:"variants"`
}

type shopifyVariant struct {
	ID              int64  `json:"id"`
	SKU             string `json:"sku"`
	Title           string `json:"title"`
	Price           string `json:"price"`
	InventoryItemID int64  `json:"inventory_item_id"`
	Option1         string `json:"option1"`
	Option2         string `json:"option2"`
	Option3         string `json:"option3"`
}

// attributes serializes the variant's option values as a stable JSON
// object, or empty when the variant has no options.
func (v shopifyVariant) attributes() string {
	opts := map[string]string{}
	if v.Option1 != "" {
		opts["option1"] = v.Option1
	}
	if v.Option2 != "" {
		opts["option2"] = v.Option2
	}
	if v.Option3 != "" {
		opts["option3"] = v.Option3
	}
	if len(opts) == 0 {
		return ""
	}
	encoded, err := json.Marshal(opts)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// FetchInventoryPage fetches one page of inventory levels for a location
func (a *ShopifyAdapter) FetchInventoryPage(ctx context.Context, locationID, cursor string) (*integration.InventoryLevelPage, error) {
	if !a.configured {
		return nil, integration.ErrMissingCredentials
	}

	params := map[string]string{"limit": strconv.Itoa(a.pageSize)}
	// Shopify rejects filter params alongside a page_info cursor; the
	// cursor already encodes the location filter from the first request.
	if cursor != "" {
		params["page_info"] = cursor
	} else if locationID != "" {
		params["location_ids"] = locationID
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/inventory_levels.json")
	if err := a.checkResponse(ctx, resp, err); err != nil {
		return nil, err
	}

	var envelope inventoryLevelsEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrUpstreamInvalidResponse, err)
	}

	levels := make([]integration.InventoryLevelRecord, 0, len(envelope.InventoryLevels))
	for _, level := range envelope.InventoryLevels {
		levels = append(levels, integration.InventoryLevelRecord{
			InventoryItemID:   formatID(level.InventoryItemID),
			LocationID:        formatID(level.LocationID),
			AvailableQuantity: level.Available,
		})
	}

	return &integration.InventoryLevelPage{
		Levels:     levels,
		NextCursor: parseNextCursor(resp.Header().Get("Link")),
	}, nil
}

// FetchProductPage fetches one page of vendor products
func (a *ShopifyAdapter) FetchProductPage(ctx context.Context, cursor string) (*integration.VendorProductPage, error) {
	if !a.configured {
		return nil, integration.ErrMissingCredentials
	}

	params := map[string]string{"limit": strconv.Itoa(a.pageSize)}
	if cursor != "" {
		params["page_info"] = cursor
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/products.json")
	if err := a.checkResponse(ctx, resp, err); err != nil {
		return nil, err
	}

	var envelope productsEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrUpstreamInvalidResponse, err)
	}

	products := make([]integration.VendorProductRecord, 0, len(envelope.Products))
	for _, raw := range envelope.Products {
		var p shopifyProduct
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrUpstreamInvalidResponse, err)
		}

		variants := make([]integration.VendorVariantRecord, 0, len(p.Variants))
		for _, v := range p.Variants {
			price, err := decimal.NewFromString(v.Price)
			if err != nil {
				a.logger.Warn("Unparsable variant price, defaulting to zero",
					zap.String("sku", v.SKU),
					zap.String("price", v.Price),
				)
				price = decimal.Zero
			}
			variants = append(variants, integration.VendorVariantRecord{
				VariantID:       formatID(v.ID),
				SKU:             v.SKU,
				Title:           v.Title,
				Price:           price,
				InventoryItemID: formatID(v.InventoryItemID),
				Attributes:      v.attributes(),
			})
		}

		products = append(products, integration.VendorProductRecord{
			ProductID:  formatID(p.ID),
			Title:      p.Title,
			Vendor:     p.Vendor,
			Variants:   variants,
			RawPayload: string(raw),
		})
	}

	return &integration.VendorProductPage{
		Products:   products,
		NextCursor: parseNextCursor(resp.Header().Get("Link")),
	}, nil
}

// checkResponse folds transport errors and non-success statuses into the
// platform error taxonomy. Retries already happened inside the client.
func (a *ShopifyAdapter) checkResponse(ctx context.Context, resp *resty.Response, err error) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", integration.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		return integration.NewUpstreamError(resp.StatusCode(), snippet(resp.Body()))
	}
	return nil
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}

// Ensure ShopifyAdapter implements VendorPlatform
var _ integration.VendorPlatform = (*ShopifyAdapter)(nil)
