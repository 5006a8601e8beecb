package checkout

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sortmyscene/internal/catalog"
	"sortmyscene/internal/shared/utils/response"
)

type Controller interface {
	CreateCheckout(c *gin.Context)
	GetCheckout(c *gin.Context)
	SetQuantity(c *gin.Context)
	SelectDate(c *gin.Context)
	SubmitAttendee(c *gin.Context)
	Advance(c *gin.Context)
	CancelCheckout(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateCheckout(c *gin.Context) {
	eventID := c.Param("id")

	state, err := ctrl.service.Create(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, catalog.ErrEventNotFound) || errors.Is(err, catalog.ErrCatalogNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to start checkout", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Checkout started", state, nil)
}

func (ctrl *controller) GetCheckout(c *gin.Context) {
	state, err := ctrl.service.Get(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checkout retrieved successfully", state, nil)
}

func (ctrl *controller) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	state, err := ctrl.service.SetQuantity(c.Request.Context(), c.Param("checkoutId"), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Quantity updated", state, nil)
}

func (ctrl *controller) SelectDate(c *gin.Context) {
	var req SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	state, err := ctrl.service.SelectDate(c.Request.Context(), c.Param("checkoutId"), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Date selected", state, nil)
}

func (ctrl *controller) SubmitAttendee(c *gin.Context) {
	var req AttendeeInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	state, err := ctrl.service.SubmitAttendee(c.Request.Context(), c.Param("checkoutId"), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Attendee info saved", state, nil)
}

func (ctrl *controller) Advance(c *gin.Context) {
	state, advanced, err := ctrl.service.Advance(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	if !advanced {
		response.RespondJSON(c, "success", http.StatusOK, "Checkout unchanged", state, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checkout advanced", state, nil)
}

func (ctrl *controller) CancelCheckout(c *gin.Context) {
	if err := ctrl.service.Cancel(c.Request.Context(), c.Param("checkoutId")); err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checkout cancelled", nil, nil)
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCheckoutNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Checkout not found or expired", nil, nil)
	case errors.Is(err, ErrUnknownTicket), errors.Is(err, ErrUnknownDateKey):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidQuantity):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, catalog.ErrEventNotFound), errors.Is(err, catalog.ErrCatalogNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Checkout operation failed", nil, nil)
	}
}
