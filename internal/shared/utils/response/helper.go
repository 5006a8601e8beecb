package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the envelope. Pass nil for data or errors to drop the
// field from the body; a response carries one or the other, never both.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
