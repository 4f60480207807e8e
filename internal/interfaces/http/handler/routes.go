package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the decision inbox endpoints
func (h *InboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inbox := rg.Group("/inbox")
	{
		inbox.GET("", h.List)
		inbox.GET("/count", h.Count)
		inbox.GET("/:id", h.Get)
		inbox.POST("/:id/decision", h.Decide)
	}

	rg.GET("/decisions", h.History)
}

// RegisterRoutes registers the sync endpoints
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/inventory", h.TriggerInventorySync)
		sync.POST("/products", h.TriggerProductSync)
		sync.GET("/runs", h.ListRuns)
		sync.GET("/runs/:id", h.GetRun)
	}
}

// RegisterRoutes registers the canonical catalog endpoints
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/variants", h.ListVariants)
		catalog.GET("/variants/:sku", h.GetVariant)
		catalog.PUT("/variants/:sku/threshold", h.SetThreshold)
		catalog.GET("/low-stock", h.ListLowStock)
		catalog.GET("/overrides", h.ListOverrides)
		catalog.POST("/overrides/:id/resolve", h.ResolveOverride)
	}
}

// RegisterRoutes registers the system endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/info", h.Info)
	}
}
