package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	syncapp "github.com/vendorsync/backend/internal/application/sync"
	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/interfaces/http/dto"
)

// SyncHandler triggers sync runs and exposes their summaries
type SyncHandler struct {
	BaseHandler
	syncService       *syncapp.SyncService
	defaultLocationID string
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *syncapp.SyncService, defaultLocationID string) *SyncHandler {
	return &SyncHandler{
		syncService:       syncService,
		defaultLocationID: defaultLocationID,
	}
}

// TriggerInventorySyncRequest represents a request to start an inventory sync
type TriggerInventorySyncRequest struct {
	LocationID string `json:"location_id" binding:"omitempty,max=64"`
}

// SyncRunResponse represents a sync run summary
type SyncRunResponse struct {
	ID             uuid.UUID  `json:"id"`
	ResourceType   string     `json:"resource_type"`
	Status         string     `json:"status"`
	PagesFetched   int        `json:"pages_fetched"`
	RecordsMerged  int        `json:"records_merged"`
	RecordsSkipped int        `json:"records_skipped"`
	FailedPages    int        `json:"failed_pages"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// TriggerInventorySync starts a synchronous inventory level sync
func (h *SyncHandler) TriggerInventorySync(c *gin.Context) {
	var req TriggerInventorySyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	locationID := req.LocationID
	if locationID == "" {
		locationID = h.defaultLocationID
	}

	run, err := h.syncService.RunInventorySync(c.Request.Context(), locationID)
	if err != nil {
		h.handleSyncError(c, err)
		return
	}

	h.Success(c, toSyncRunResponse(run))
}

// TriggerProductSync starts a synchronous vendor product sync
func (h *SyncHandler) TriggerProductSync(c *gin.Context) {
	run, err := h.syncService.RunProductSync(c.Request.Context())
	if err != nil {
		h.handleSyncError(c, err)
		return
	}

	h.Success(c, toSyncRunResponse(run))
}

// GetRun returns one sync run summary
func (h *SyncHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sync run ID")
		return
	}

	run, err := h.syncService.GetRun(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSyncRunResponse(run))
}

// ListRuns returns recent sync run summaries, newest first
func (h *SyncHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.syncService.ListRecentRuns(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]SyncRunResponse, 0, len(runs))
	for i := range runs {
		items = append(items, toSyncRunResponse(&runs[i]))
	}

	h.Success(c, items)
}

func (h *SyncHandler) handleSyncError(c *gin.Context, err error) {
	if errors.Is(err, syncapp.ErrSyncAlreadyRunning) {
		h.Error(c, http.StatusConflict, dto.ErrCodeSyncAlreadyRunning, "A sync for this resource is already running")
		return
	}
	if integration.IsRetryable(err) || errors.Is(err, integration.ErrUpstreamUnavailable) {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamFailure, err.Error())
		return
	}
	h.HandleError(c, err)
}

func toSyncRunResponse(run *integration.SyncRun) SyncRunResponse {
	return SyncRunResponse{
		ID:             run.ID,
		ResourceType:   string(run.ResourceType),
		Status:         string(run.Status),
		PagesFetched:   run.PagesFetched,
		RecordsMerged:  run.RecordsMerged,
		RecordsSkipped: run.RecordsSkipped,
		FailedPages:    run.FailedPages,
		ErrorMessage:   run.ErrorMessage,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
	}
}
