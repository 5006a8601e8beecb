package checkout

import (
	"github.com/gin-gonic/gin"
)

func SetupCheckoutRoutes(router *gin.RouterGroup, controller Controller) {
	// Opening a checkout hangs off the event
	router.POST("/events/:id/checkout", controller.CreateCheckout) // POST /api/v1/events/:id/checkout

	// Everything else addresses the checkout session
	sessions := router.Group("/checkout/:checkoutId")
	{
		sessions.GET("", controller.GetCheckout)           // GET    /api/v1/checkout/:checkoutId
		sessions.PUT("/tickets", controller.SetQuantity)   // PUT    /api/v1/checkout/:checkoutId/tickets
		sessions.PUT("/date", controller.SelectDate)       // PUT    /api/v1/checkout/:checkoutId/date
		sessions.PUT("/attendee", controller.SubmitAttendee) // PUT  /api/v1/checkout/:checkoutId/attendee
		sessions.POST("/advance", controller.Advance)      // POST   /api/v1/checkout/:checkoutId/advance
		sessions.DELETE("", controller.CancelCheckout)     // DELETE /api/v1/checkout/:checkoutId
	}
}
