package controller

import (
	"github.com/gin-gonic/gin"

	"store_rating/internal/api/dto"
	"store_rating/internal/middleware"
	"store_rating/internal/service"
)

// ==================== RatingController ====================

type RatingController struct {
	ratingService *service.RatingService
	statsService  *service.StatsService
}

func NewRatingController(ratingService *service.RatingService, statsService *service.StatsService) *RatingController {
	return &RatingController{ratingService: ratingService, statsService: statsService}
}

// SubmitRating
// @Summary Rate a store
// @Description Creates the caller's rating or replaces the earlier one for the same store.
// @Tags Ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitRatingRequest true "rating"
// @Success 200 {object} dto.SubmitRatingResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /ratings [post]
func (c *RatingController) SubmitRating(ctx *gin.Context) {
	var req dto.SubmitRatingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.ratingService.SubmitRating(ctx.Request.Context(), middleware.GetPrincipal(ctx), &req)
	if err != nil {
		handleError(ctx, err)
		return
	}

	message := "rating updated"
	if resp.Created {
		message = "rating submitted"
	}
	ok(ctx, message, resp)
}

// PlatformStats
// @Summary Platform totals
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PlatformStats
// @Failure 403 {object} map[string]interface{}
// @Router /ratings/stats [get]
func (c *RatingController) PlatformStats(ctx *gin.Context) {
	stats, err := c.statsService.PlatformStats(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", stats)
}

// MyRatings
// @Summary Caller's rating history
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RatingInfo
// @Router /ratings/user [get]
func (c *RatingController) MyRatings(ctx *gin.Context) {
	p := middleware.GetPrincipal(ctx)
	history, err := c.statsService.UserRatingHistory(ctx.Request.Context(), p, p.UserID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", history)
}

// UserRatings
// @Summary Rating history of a user
// @Description Only the user themselves or an admin.
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {array} dto.RatingInfo
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /ratings/user/{id} [get]
func (c *RatingController) UserRatings(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	history, err := c.statsService.UserRatingHistory(ctx.Request.Context(), middleware.GetPrincipal(ctx), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", history)
}

// Summary
// @Summary Caller's rating dashboard
// @Tags Ratings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserSummary
// @Router /ratings/summary [get]
func (c *RatingController) Summary(ctx *gin.Context) {
	summary, err := c.statsService.Summary(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", summary)
}
