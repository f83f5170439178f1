package reviews

import (
	"errors"
	"net/http"
	"strconv"

	"deluxetours/internal/bookings"
	"deluxetours/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) Submit(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.Fail(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	review, err := c.service.Submit(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateReview):
			response.Fail(ctx, http.StatusConflict, "You have already reviewed this tour", nil)
		case errors.Is(err, ErrBookingMismatch):
			response.Fail(ctx, http.StatusBadRequest, "Booking does not match this tour", nil)
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to submit review", nil)
		}
		return
	}

	response.OK(ctx, http.StatusCreated, "Review submitted, pending approval", review)
}

func (c *Controller) ListForTour(ctx *gin.Context) {
	tourID := ctx.Param("id")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, err := c.service.ListForTour(ctx.Request.Context(), tourID, page, limit)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list reviews", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Reviews retrieved successfully", list)
}

func (c *Controller) List(ctx *gin.Context) {
	var query ReviewListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	list, err := c.service.List(ctx.Request.Context(), &query)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list reviews", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Reviews retrieved successfully", list)
}

func (c *Controller) Approve(ctx *gin.Context) {
	id := ctx.Param("id")

	review, err := c.service.Approve(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Review not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to approve review", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Review approved successfully", review)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Review not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to delete review", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Review deleted successfully", nil)
}
