package routes

import (
	"time"

	"payflow/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers the payment flow endpoints.
func RegisterPaymentRoutes(r *gin.Engine, h *handlers.PaymentHandler) {
	api := r.Group("/payment")
	{
		api.POST("/initiate", h.InitiatePaymentHandler)
		api.POST("/verify-otp", h.VerifyOTPHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", handlers.HealthHandler)
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.PaymentHandler) {
	// CORS is wide open for the demo frontend.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterPaymentRoutes(r, h)
}
