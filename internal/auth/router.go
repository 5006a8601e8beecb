package auth

import (
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.RouterGroup, controller Controller) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup", controller.SignUp) // POST /api/v1/auth/signup
		authRoutes.POST("/login", controller.Login)   // POST /api/v1/auth/login
		authRoutes.POST("/logout", controller.Logout) // POST /api/v1/auth/logout
		authRoutes.GET("/me", controller.Me)          // GET  /api/v1/auth/me
	}
}
