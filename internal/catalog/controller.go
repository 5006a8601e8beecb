package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sortmyscene/internal/shared/utils/response"
)

type Controller interface {
	ListCatalog(c *gin.Context)
	GetEvent(c *gin.Context)
	GetTicketCatalog(c *gin.Context)
	GetGenres(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ListCatalog serves the browse page data: the active tab's collection with
// the search/city/genre filters applied.
func (ctrl *controller) ListCatalog(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	listing, err := ctrl.service.List(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load catalog", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Catalog retrieved successfully", listing, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	event, err := ctrl.service.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Event not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load event", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) GetTicketCatalog(c *gin.Context) {
	eventID := c.Param("id")

	tc, err := ctrl.service.GetTicketCatalog(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrCatalogNotFound) || errors.Is(err, ErrEventNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Ticket catalog not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load ticket catalog", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket catalog retrieved successfully", tc, nil)
}

func (ctrl *controller) GetGenres(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Genres retrieved successfully", ctrl.service.Genres(), nil)
}
