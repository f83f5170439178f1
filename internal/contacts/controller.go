package contacts

import (
	"errors"
	"net/http"

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
	var req SubmitContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	contact, err := c.service.Submit(ctx.Request.Context(), &req)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to submit inquiry", nil)
		return
	}

	response.OK(ctx, http.StatusCreated, "Thank you for contacting us, we will get back to you shortly", gin.H{
		"id": contact.ID,
	})
}

func (c *Controller) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	readerID, _ := ctx.Get("user_id")
	reader, _ := readerID.(string)

	contact, err := c.service.Get(ctx.Request.Context(), id, reader)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Inquiry not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve inquiry", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Inquiry retrieved successfully", contact)
}

func (c *Controller) List(ctx *gin.Context) {
	var query ContactListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	list, err := c.service.List(ctx.Request.Context(), &query)
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to list inquiries", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Inquiries retrieved successfully", list)
}

func (c *Controller) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var req UpdateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	contact, err := c.service.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Inquiry not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to update inquiry", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Inquiry updated successfully", contact)
}

func (c *Controller) Respond(ctx *gin.Context) {
	id := ctx.Param("id")
	responderID, _ := ctx.Get("user_id")
	responder, _ := responderID.(string)

	var req RespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	contact, err := c.service.Respond(ctx.Request.Context(), id, responder, &req)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Inquiry not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to add response", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Response added successfully", contact)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			response.Fail(ctx, http.StatusNotFound, "Inquiry not found", nil)
			return
		}
		response.Fail(ctx, http.StatusInternalServerError, "Failed to delete inquiry", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Inquiry deleted successfully", nil)
}

func (c *Controller) UnreadCount(ctx *gin.Context) {
	count, err := c.service.UnreadCount(ctx.Request.Context())
	if err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "Failed to count unread inquiries", nil)
		return
	}

	response.OK(ctx, http.StatusOK, "Unread count retrieved successfully", gin.H{"unread": count})
}
