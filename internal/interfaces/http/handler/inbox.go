package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	decisionapp "github.com/vendorsync/backend/internal/application/decision"
	inboxapp "github.com/vendorsync/backend/internal/application/inbox"
	"github.com/vendorsync/backend/internal/application/reconcile"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// InboxHandler serves the decision inbox: listing staged products and
// recording operator decisions on them.
type InboxHandler struct {
	BaseHandler
	inboxService    *inboxapp.Service
	decisionService *decisionapp.Service
}

// NewInboxHandler creates a new InboxHandler
func NewInboxHandler(inboxService *inboxapp.Service, decisionService *decisionapp.Service) *InboxHandler {
	return &InboxHandler{
		inboxService:    inboxService,
		decisionService: decisionService,
	}
}

// ListInboxRequest represents inbox list query parameters
type ListInboxRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Decision string `form:"decision" binding:"omitempty,oneof=pending accepted rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CountInboxRequest represents inbox count query parameters
type CountInboxRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Decision string `form:"decision" binding:"omitempty,oneof=pending accepted rejected"`
}

// InboxCountResponse carries the number of inbox rows matching a filter
type InboxCountResponse struct {
	InboxCount int64 `json:"inbox_count"`
}

// DecideRequest represents a request to decide a staged product
type DecideRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
	Actor    string `json:"actor" binding:"required,min=1,max=255"`
}

// StagedVariantResponse represents a staged variant in API responses
type StagedVariantResponse struct {
	ID                uuid.UUID `json:"id"`
	UpstreamVariantID string    `json:"upstream_variant_id"`
	SKU               string    `json:"sku"`
	Title             string    `json:"title"`
	Price             string    `json:"price"`
	InventoryItemID   string    `json:"inventory_item_id"`
	Attributes        string    `json:"attributes,omitempty"`
}

// StagedProductResponse represents a staged product in API responses
type StagedProductResponse struct {
	ID                uuid.UUID               `json:"id"`
	UpstreamProductID string                  `json:"upstream_product_id"`
	Title             string                  `json:"title"`
	Vendor            string                  `json:"vendor"`
	Status            string                  `json:"status"`
	Decision          string                  `json:"decision"`
	DecidedBy         string                  `json:"decided_by,omitempty"`
	DecidedAt         *time.Time              `json:"decided_at,omitempty"`
	Variants          []StagedVariantResponse `json:"variants"`
	LastSyncedAt      time.Time               `json:"last_synced_at"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// ImportDecisionResponse represents a decision audit record
type ImportDecisionResponse struct {
	ID                uuid.UUID `json:"id"`
	StagedProductID   uuid.UUID `json:"staged_product_id"`
	UpstreamProductID string    `json:"upstream_product_id"`
	Decision          string    `json:"decision"`
	DecidedBy         string    `json:"decided_by"`
	DecidedAt         time.Time `json:"decided_at"`
}

// DecideResponse represents the outcome of a decision request
type DecideResponse struct {
	Decision       *ImportDecisionResponse `json:"decision,omitempty"`
	Reconciliation *reconcile.Result       `json:"reconciliation,omitempty"`
	AlreadyDecided bool                    `json:"already_decided"`
}

// List returns a page of the decision inbox
func (h *InboxHandler) List(c *gin.Context) {
	var req ListInboxRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.inboxService.List(c.Request.Context(), inboxapp.Query{
		Search:   req.Search,
		Status:   req.Status,
		Decision: req.Decision,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StagedProductResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toStagedProductResponse(&page.Items[i]))
	}

	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Count returns the number of inbox rows matching the filters, without
// paging through them
func (h *InboxHandler) Count(c *gin.Context) {
	var req CountInboxRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	count, err := h.inboxService.Count(c.Request.Context(), inboxapp.Query{
		Search:   req.Search,
		Status:   req.Status,
		Decision: req.Decision,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, InboxCountResponse{InboxCount: count})
}

// Get returns one staged product with its variants
func (h *InboxHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid staged product ID")
		return
	}

	product, err := h.inboxService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toStagedProductResponse(product))
}

// Decide records an accept or reject decision on a staged product
func (h *InboxHandler) Decide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid staged product ID")
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.decisionService.Decide(c.Request.Context(), id, staging.DecisionStatus(req.Decision), req.Actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDecideResponse(result))
}

// History lists past decision audit records
func (h *InboxHandler) History(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if decision := c.Query("decision"); decision != "" {
		filter.Filters["decision"] = decision
	}
	if actor := c.Query("decided_by"); actor != "" {
		filter.Filters["decided_by"] = actor
	}

	decisions, err := h.decisionService.History(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ImportDecisionResponse, 0, len(decisions))
	for i := range decisions {
		items = append(items, toImportDecisionResponse(&decisions[i]))
	}

	h.Success(c, items)
}

func toStagedProductResponse(p *staging.StagedVendorProduct) StagedProductResponse {
	variants := make([]StagedVariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, StagedVariantResponse{
			ID:                v.ID,
			UpstreamVariantID: v.UpstreamVariantID,
			SKU:               v.SKU,
			Title:             v.Title,
			Price:             v.Price.String(),
			InventoryItemID:   v.InventoryItemID,
			Attributes:        v.Attributes,
		})
	}

	return StagedProductResponse{
		ID:                p.ID,
		UpstreamProductID: p.UpstreamProductID,
		Title:             p.Title,
		Vendor:            p.Vendor,
		Status:            string(p.Status),
		Decision:          string(p.Decision),
		DecidedBy:         p.DecidedBy,
		DecidedAt:         p.DecidedAt,
		Variants:          variants,
		LastSyncedAt:      p.LastSyncedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toImportDecisionResponse(d *staging.ImportDecision) ImportDecisionResponse {
	return ImportDecisionResponse{
		ID:                d.ID,
		StagedProductID:   d.StagedProductID,
		UpstreamProductID: d.UpstreamProductID,
		Decision:          string(d.Decision),
		DecidedBy:         d.DecidedBy,
		DecidedAt:         d.DecidedAt,
	}
}

func toDecideResponse(result *decisionapp.Result) DecideResponse {
	resp := DecideResponse{
		Reconciliation: result.Reconciliation,
		AlreadyDecided: result.AlreadyDecided,
	}
	if result.Decision != nil {
		d := toImportDecisionResponse(result.Decision)
		resp.Decision = &d
	}
	return resp
}
