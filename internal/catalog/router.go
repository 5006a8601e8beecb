package catalog

import (
	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(router *gin.RouterGroup, controller Controller) {
	// Browse routes - listing with filters, plus the genre filter bar
	browse := router.Group("/catalog")
	{
		browse.GET("", controller.ListCatalog)        // GET /api/v1/catalog?tab=events&search=&city=&genre=
		browse.GET("/genres", controller.GetGenres)   // GET /api/v1/catalog/genres
	}

	// Event detail routes
	events := router.Group("/events")
	{
		events.GET("/:id", controller.GetEvent)                 // GET /api/v1/events/:id
		events.GET("/:id/tickets", controller.GetTicketCatalog) // GET /api/v1/events/:id/tickets
	}
}
