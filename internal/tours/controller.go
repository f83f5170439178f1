package tours

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

func (c *Controller) CreateTour(ctx *gin.Context) {
	var req CreateTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	tour, err := c.service.CreateTour(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			response.Fail(ctx, http.StatusBadRequest, "Invalid availability date", err.Error())
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to create tour", nil)
		return
	}

	response.OK(ctx, http.StatusCreated, "Tour created successfully", tour)
}

func (c *Controller) UpdateTour(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	tour, err := c.service.UpdateTour(ctx.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Tour not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to update tour", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Tour updated successfully", tour)
}

func (c *Controller) DeleteTour(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.service.DeleteTour(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Tour not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to delete tour", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Tour deleted successfully", nil)
}

func (c *Controller) GetTour(ctx *gin.Context) {
	id := ctx.Param("id")

	tour, err := c.service.GetTour(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Tour not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve tour", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Tour retrieved successfully", tour)
}

func (c *Controller) GetTourBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")

	tour, err := c.service.GetTourBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Tour not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve tour", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Tour retrieved successfully", tour)
}

func (c *Controller) ListTours(ctx *gin.Context) {
	var query TourListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	list, err := c.service.ListTours(ctx.Request.Context(), &query)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list tours", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Tours retrieved successfully", list)
}

func (c *Controller) ListFeatured(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "6"))

	tours, err := c.service.ListFeatured(ctx.Request.Context(), limit)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list featured tours", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Featured tours retrieved successfully", tours)
}

func (c *Controller) SetAvailability(ctx *gin.Context) {
	id := ctx.Param("id")

	var req SetAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	if err := c.service.SetAvailability(ctx.Request.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, ErrTourNotFound):
			response.Fail(ctx, http.StatusNotFound, "Tour not found", nil)
		case errors.Is(err, ErrInvalidDate):
			response.Fail(ctx, http.StatusBadRequest, "Invalid availability date", err.Error())
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to set availability", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Availability updated successfully", nil)
}

func (c *Controller) CheckAvailability(ctx *gin.Context) {
	id := ctx.Param("id")
	dateStr := ctx.Query("date")
	travelers, _ := strconv.Atoi(ctx.DefaultQuery("travelers", "1"))
	if travelers < 1 {
		travelers = 1
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	result, err := c.service.CheckAvailability(ctx.Request.Context(), id, date, travelers)
	if err != nil {
		switch {
		case errors.Is(err, ErrTourNotFound):
			response.Fail(ctx, http.StatusNotFound, "Tour not found", nil)
		case errors.Is(err, ErrDateNotAvailable):
			response.Fail(ctx, http.StatusNotFound, "Tour not available on that date", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to check availability", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Availability retrieved successfully", result)
}
