package controller

import (
	"github.com/gin-gonic/gin"

	"store_rating/internal/api/dto"
	"store_rating/internal/middleware"
	"store_rating/internal/service"
)

// ==================== StoreController ====================

type StoreController struct {
	storeService *service.StoreService
	statsService *service.StatsService
}

func NewStoreController(storeService *service.StoreService, statsService *service.StatsService) *StoreController {
	return &StoreController{storeService: storeService, statsService: statsService}
}

// ListStores
// @Summary Browse stores
// @Description Each row carries average, rating_count and the caller's my_rating.
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param search query string false "name or address contains"
// @Param name query string false "name contains"
// @Param address query string false "address contains"
// @Param sort_by query string false "id|name|address|created_at"
// @Param sort_order query string false "asc|desc"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} dto.StoreListResponse
// @Router /stores [get]
func (c *StoreController) ListStores(ctx *gin.Context) {
	var req dto.StoreListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.storeService.ListStores(ctx.Request.Context(), middleware.GetPrincipal(ctx), &req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", resp)
}

// CreateStore
// @Summary Create a store
// @Tags Stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStoreRequest true "store"
// @Success 201 {object} dto.StoreInfo
// @Failure 400 {object} map[string]interface{}
// @Router /stores [post]
func (c *StoreController) CreateStore(ctx *gin.Context) {
	var req dto.CreateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	store, err := c.storeService.CreateStore(ctx.Request.Context(), &req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	created(ctx, "store created", store)
}

// OwnedStores
// @Summary Stores owned by the caller
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.StoreInfo
// @Failure 403 {object} map[string]interface{}
// @Router /stores/owned [get]
func (c *StoreController) OwnedStores(ctx *gin.Context) {
	stores, err := c.storeService.OwnedStores(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", stores)
}

// GetStore
// @Summary Store detail
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param id path int true "store id"
// @Success 200 {object} dto.StoreInfo
// @Failure 404 {object} map[string]interface{}
// @Router /stores/{id} [get]
func (c *StoreController) GetStore(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	store, err := c.storeService.GetStore(ctx.Request.Context(), middleware.GetPrincipal(ctx), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", store)
}

// UpdateStore
// @Summary Update a store
// @Tags Stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "store id"
// @Param request body dto.UpdateStoreRequest true "changes"
// @Success 200 {object} dto.StoreInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /stores/{id} [put]
func (c *StoreController) UpdateStore(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	var req dto.UpdateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	store, err := c.storeService.UpdateStore(ctx.Request.Context(), id, &req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "store updated", store)
}

// StoreAverage
// @Summary Average score of a store
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param id path int true "store id"
// @Success 200 {object} model.StoreAggregate
// @Failure 404 {object} map[string]interface{}
// @Router /stores/{id}/average [get]
func (c *StoreController) StoreAverage(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	agg, err := c.statsService.StoreAverage(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", agg)
}

// StoreRatings
// @Summary Raters of a store
// @Description Store owners only see their own stores; a missing store is also 403.
// @Tags Stores
// @Produce json
// @Security BearerAuth
// @Param id path int true "store id"
// @Success 200 {object} dto.StoreRatingsResponse
// @Failure 403 {object} map[string]interface{}
// @Router /stores/{id}/ratings [get]
func (c *StoreController) StoreRatings(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	resp, err := c.storeService.StoreRatings(ctx.Request.Context(), middleware.GetPrincipal(ctx), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", resp)
}
