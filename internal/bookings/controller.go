package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"deluxetours/internal/shared/utils/response"
	"deluxetours/internal/tours"
	"deluxetours/internal/users"

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

func requesterInfo(ctx *gin.Context) (userID string, isStaff bool) {
	if id, ok := ctx.Get("user_id"); ok {
		userID, _ = id.(string)
	}
	if role, ok := ctx.Get("user_role"); ok {
		if r, ok := role.(string); ok {
			isStaff = users.Role(r).IsStaff()
		}
	}
	return userID, isStaff
}

func (c *Controller) CheckAvailability(ctx *gin.Context) {
	var req CheckAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	result, err := c.service.CheckAvailability(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTravelers), errors.Is(err, ErrInvalidDate):
			response.Fail(ctx, http.StatusBadRequest, "Invalid availability request", err.Error())
		case errors.Is(err, tours.ErrTourNotFound), errors.Is(err, tours.ErrDateNotAvailable):
			response.Fail(ctx, http.StatusNotFound, "Tour not available on that date", nil)
		case errors.Is(err, ErrTourInactive):
			response.Fail(ctx, http.StatusBadRequest, "Tour is not open for booking", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to check availability", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Availability retrieved successfully", result)
}

func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	userID, _ := requesterInfo(ctx)

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTravelers), errors.Is(err, ErrTourRequired),
			errors.Is(err, ErrInvalidDate), errors.Is(err, ErrTourInactive):
			response.Fail(ctx, http.StatusBadRequest, "Invalid booking request", err.Error())
		case errors.Is(err, tours.ErrTourNotFound), errors.Is(err, tours.ErrDateNotAvailable):
			response.Fail(ctx, http.StatusNotFound, "Tour not available on that date", nil)
		case errors.Is(err, tours.ErrInsufficientCapacity):
			response.Fail(ctx, http.StatusBadRequest, "Not enough spots available for that date", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to create booking", nil)
		}
		return
	}

	response.OK(ctx, http.StatusCreated, "Booking created successfully", booking)
}

func (c *Controller) GetBooking(ctx *gin.Context) {
	id := ctx.Param("id")
	userID, isStaff := requesterInfo(ctx)

	booking, err := c.service.GetBooking(ctx.Request.Context(), id, userID, isStaff)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrForbidden):
			response.Fail(ctx, http.StatusForbidden, "Not allowed to access this booking", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve booking", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

func (c *Controller) GetBookingByReference(ctx *gin.Context) {
	reference := ctx.Param("reference")

	booking, err := c.service.GetBookingByReference(ctx.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve booking", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

func (c *Controller) ListUserBookings(ctx *gin.Context) {
	userID, _ := requesterInfo(ctx)
	if userID == "" {
		response.Fail(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, err := c.service.ListUserBookings(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Bookings retrieved successfully", list)
}

func (c *Controller) CancelBooking(ctx *gin.Context) {
	id := ctx.Param("id")
	userID, isStaff := requesterInfo(ctx)

	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), id, userID, isStaff, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrForbidden):
			response.Fail(ctx, http.StatusForbidden, "Not allowed to cancel this booking", nil)
		case errors.Is(err, ErrAlreadyCancelled):
			response.Fail(ctx, http.StatusConflict, "Booking is already cancelled", nil)
		case errors.Is(err, ErrWindowClosed):
			response.Fail(ctx, http.StatusBadRequest, "Bookings can only be cancelled at least 48 hours before the tour date", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to cancel booking", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Booking cancelled successfully", booking)
}

func (c *Controller) ListBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	list, err := c.service.ListBookings(ctx.Request.Context(), &query)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list bookings", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Bookings retrieved successfully", list)
}

func (c *Controller) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	if err := c.service.UpdateStatus(ctx.Request.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			response.Fail(ctx, http.StatusBadRequest, "Invalid booking status", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to update status", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Booking status updated successfully", nil)
}

func (c *Controller) UpdatePayment(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	if err := c.service.UpdatePayment(ctx.Request.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			response.Fail(ctx, http.StatusBadRequest, "Invalid payment status", nil)
		default:
			response.Fail(ctx, http.StatusInternalServerError, "Failed to update payment", nil)
		}
		return
	}

	response.OK(ctx, http.StatusOK, "Payment updated successfully", nil)
}

func (c *Controller) AddNote(ctx *gin.Context) {
	id := ctx.Param("id")
	userID, _ := requesterInfo(ctx)

	var req AddNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	if err := c.service.AddNote(ctx.Request.Context(), id, userID, &req); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to add note", nil)
		return
	}

	response.OK(ctx, http.StatusCreated, "Note added successfully", nil)
}

func (c *Controller) DeleteBooking(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.service.DeleteBooking(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to delete booking", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Booking deleted successfully", nil)
}

func (c *Controller) GetStats(ctx *gin.Context) {
	stats, err := c.service.GetStats(ctx.Request.Context())
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve stats", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Stats retrieved successfully", stats)
}
