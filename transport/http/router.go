package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bazario/console/service"
)

// SetupRouter sets up the Gin router: the public authentication entry
// points and the guarded dashboard surface.
func SetupRouter(handlers *ConsoleHandlers, session *service.SessionService, guardCfg GuardConfig) *gin.Engine {
	router := gin.Default()

	router.GET("/session", handlers.Session)

	auth := router.Group("/auth")
	{
		auth.POST("/send-otp", handlers.SendOTP)
		auth.POST("/verify-otp", handlers.VerifyOTP)
		auth.POST("/resend-otp", handlers.ResendOTP)
		auth.POST("/cancel", handlers.CancelOTP)
		auth.POST("/logout", handlers.Logout)
	}

	dashboard := router.Group("/dashboard")
	dashboard.Use(Guard(session, guardCfg))
	{
		dashboard.GET("/me", handlers.Me)

		dashboard.GET("/vendors", handlers.Vendors)
		dashboard.PUT("/vendor/:id/:action", handlers.VendorAction)

		dashboard.GET("/users", handlers.Users)
		dashboard.PUT("/user/:id/assign-admin", handlers.AssignAdmin)
		dashboard.PUT("/user/:id/revoke-admin", handlers.RevokeAdmin)
		dashboard.PUT("/user/:id/toggle-status", handlers.ToggleUserStatus)

		dashboard.PUT("/profile", handlers.UpdateProfile)
	}

	return router
}
