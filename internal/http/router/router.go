package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/config"
	"github.com/ignatzorin/gigmarket-backend/internal/http/handlers"
	"github.com/ignatzorin/gigmarket-backend/internal/http/middleware"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// Handlers собирает все HTTP хэндлеры приложения.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Gig          *handlers.GigHandler
	Proposal     *handlers.ProposalHandler
	Order        *handlers.OrderHandler
	Earnings     *handlers.EarningsHandler
	Notification *handlers.NotificationHandler
	Media        *handlers.MediaHandler
	Health       *handlers.HealthHandler
}

// SetupRouter настраивает все маршруты приложения.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", h.Auth.Me)
	}

	// Публичный каталог услуг
	api.GET("/gigs", h.Gig.ListGigs)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), h.Gig.GetGig)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/gigs/my", h.Gig.ListMyGigs)
		protected.POST("/gigs", h.Gig.CreateGig)
		protected.PUT("/gigs/:id", middleware.UUIDValidator("id"), h.Gig.UpdateGig)
		protected.DELETE("/gigs/:id", middleware.UUIDValidator("id"), h.Gig.DeactivateGig)
		protected.POST("/gigs/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.SubmitProposal)

		protected.GET("/proposals", h.Proposal.ListMyProposals)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), h.Proposal.GetProposal)
		protected.POST("/proposals/:id/action", middleware.UUIDValidator("id"), h.Proposal.ActOnProposal)

		protected.GET("/orders", h.Order.ListMyOrders)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), h.Order.GetOrder)
		protected.POST("/orders/:id/proof", middleware.UUIDValidator("id"), h.Order.SubmitProof)
		protected.GET("/orders/:id/proof", middleware.UUIDValidator("id"), h.Order.GetProof)
		protected.POST("/orders/:id/review", middleware.UUIDValidator("id"), h.Order.ReviewOrder)
		protected.PUT("/orders/:id/status", middleware.UUIDValidator("id"), h.Order.UpdateStatus)

		protected.GET("/earnings", h.Earnings.GetEarnings)
		protected.POST("/earnings/withdraw", h.Earnings.Withdraw)
		protected.GET("/earnings/transactions", h.Earnings.ListTransactions)

		protected.GET("/notifications", h.Notification.ListNotifications)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
		protected.PUT("/notifications/read-all", h.Notification.MarkAllAsRead)

		protected.POST("/media/photos", h.Media.UploadPhoto)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), h.Media.DeleteMedia)
	}

	return r
}
