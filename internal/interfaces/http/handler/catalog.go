package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/vendorsync/backend/internal/application/catalog"
	"github.com/vendorsync/backend/internal/domain/catalog"
)

// CatalogHandler serves the canonical catalog read API, low stock
// listing, threshold updates and override review.
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// SetThresholdRequest represents a request to change a low stock threshold
type SetThresholdRequest struct {
	Threshold int64 `json:"threshold" binding:"min=0"`
}

// ResolveOverrideRequest represents a request to resolve an override
type ResolveOverrideRequest struct {
	Actor string `json:"actor" binding:"required,min=1,max=255"`
}

// VariantResponse represents a canonical variant in API responses
type VariantResponse struct {
	ID                uuid.UUID `json:"id"`
	SKU               string    `json:"sku"`
	Title             string    `json:"title"`
	Vendor            string    `json:"vendor"`
	Price             string    `json:"price"`
	Attributes        string    `json:"attributes,omitempty"`
	StockQuantity     int64     `json:"stock_quantity"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	StockStatus       string    `json:"stock_status"`
	ImageURL          string    `json:"image_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OverrideResponse represents an override in API responses
type OverrideResponse struct {
	ID             uuid.UUID  `json:"id"`
	VariantID      uuid.UUID  `json:"variant_id"`
	SKU            string     `json:"sku"`
	Field          string     `json:"field"`
	CanonicalValue string     `json:"canonical_value"`
	IncomingValue  string     `json:"incoming_value"`
	Reason         string     `json:"reason"`
	Resolved       bool       `json:"resolved"`
	ResolvedBy     string     `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ListVariants returns a page of canonical variants
func (h *CatalogHandler) ListVariants(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if vendor := c.Query("vendor"); vendor != "" {
		filter.Filters["vendor"] = vendor
	}
	if inStock := c.Query("in_stock"); inStock == "true" {
		filter.Filters["in_stock"] = true
	}

	page, err := h.catalogService.ListVariants(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]VariantResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toVariantResponse(&page.Items[i]))
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// GetVariant returns one canonical variant by SKU
func (h *CatalogHandler) GetVariant(c *gin.Context) {
	variant, err := h.catalogService.GetVariantBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVariantResponse(variant))
}

// ListLowStock returns variants at or below their low stock threshold
func (h *CatalogHandler) ListLowStock(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	variants, err := h.catalogService.ListLowStock(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]VariantResponse, 0, len(variants))
	for i := range variants {
		items = append(items, toVariantResponse(&variants[i]))
	}

	h.Success(c, items)
}

// SetThreshold updates one variant's low stock threshold
func (h *CatalogHandler) SetThreshold(c *gin.Context) {
	var req SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	variant, err := h.catalogService.SetLowStockThreshold(c.Request.Context(), c.Param("sku"), req.Threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVariantResponse(variant))
}

// ListOverrides lists overrides, optionally scoped to one SKU
func (h *CatalogHandler) ListOverrides(c *gin.Context) {
	includeResolved := c.Query("include_resolved") == "true"

	if sku := c.Query("sku"); sku != "" {
		overrides, err := h.catalogService.ListOverrides(c.Request.Context(), sku, includeResolved)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, toOverrideResponses(overrides))
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if !includeResolved {
		filter.Filters["resolved"] = false
	}

	page, err := h.catalogService.ListAllOverrides(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOverrideResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// ResolveOverride marks one override as reviewed
func (h *CatalogHandler) ResolveOverride(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid override ID")
		return
	}

	var req ResolveOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	override, err := h.catalogService.ResolveOverride(c.Request.Context(), id, req.Actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOverrideResponse(override))
}

func toVariantResponse(v *catalog.CanonicalVariant) VariantResponse {
	return VariantResponse{
		ID:                v.ID,
		SKU:               v.SKU,
		Title:             v.Title,
		Vendor:            v.Vendor,
		Price:             v.Price.String(),
		Attributes:        v.Attributes,
		StockQuantity:     v.StockQuantity,
		LowStockThreshold: v.LowStockThreshold,
		StockStatus:       string(v.StockStatus()),
		ImageURL:          v.ImageURL,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func toOverrideResponse(o *catalog.Override) OverrideResponse {
	return OverrideResponse{
		ID:             o.ID,
		VariantID:      o.VariantID,
		SKU:            o.SKU,
		Field:          o.Field,
		CanonicalValue: o.CanonicalValue,
		IncomingValue:  o.IncomingValue,
		Reason:         string(o.Reason),
		Resolved:       o.Resolved,
		ResolvedBy:     o.ResolvedBy,
		ResolvedAt:     o.ResolvedAt,
		CreatedAt:      o.CreatedAt,
	}
}

func toOverrideResponses(overrides []catalog.Override) []OverrideResponse {
	items := make([]OverrideResponse, 0, len(overrides))
	for i := range overrides {
		items = append(items, toOverrideResponse(&overrides[i]))
	}
	return items
}
