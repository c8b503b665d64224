package main

import (
	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.Metrics(c.Metrics),
		middleware.Authenticate(c.JWTManager),
		middleware.RateLimit(c.RateLimiter, c.Metrics),
	)

	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c.DB, c.Redis, c.Config.App.Version))

		setupBusinessRoutes(v1, c)
		setupAssessmentRoutes(v1, c)
		setupReviewRoutes(v1, c)
		setupMeRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// BUSINESS ROUTES
// ========================================
func setupBusinessRoutes(v1 *gin.RouterGroup, c *container.Container) {
	businesses := v1.Group("/businesses")
	{
		// Public (identity optional)
		businesses.GET("", c.DirectoryHandler.SearchBusinesses)
		businesses.GET("/:id", c.BusinessHandler.GetBusiness)
		businesses.GET("/:id/photos", c.BusinessHandler.ListPhotos)
		businesses.GET("/:id/assessments", c.AssessmentHandler.ListBusinessAssessments)
		businesses.GET("/:id/reviews", c.ReviewHandler.ListReviews)

		// Authenticated; ownership and role checks happen in the services
		authed := businesses.Group("")
		authed.Use(middleware.RequireIdentity())
		{
			authed.POST("", c.BusinessHandler.CreateBusiness)
			authed.PATCH("/:id", c.BusinessHandler.UpdateBusiness)
			authed.DELETE("/:id", c.BusinessHandler.DeleteBusiness)
			authed.POST("/:id/claim", c.BusinessHandler.ClaimBusiness)
			authed.POST("/:id/photos", c.BusinessHandler.AddPhoto)
			authed.POST("/:id/assessments", c.AssessmentHandler.CreateAssessment)
			authed.POST("/:id/reviews", c.ReviewHandler.CreateReview)
		}
	}
}

// ========================================
// ASSESSMENT ROUTES
// ========================================
func setupAssessmentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	assessments := v1.Group("/assessments")
	{
		// Drafts and pending assessments are visible to their author only
		assessments.GET("/:id", c.AssessmentHandler.GetAssessment)

		authed := assessments.Group("")
		authed.Use(middleware.RequireIdentity())
		{
			authed.PATCH("/:id", c.AssessmentHandler.UpdateAssessment)
			authed.POST("/:id/submit", c.AssessmentHandler.SubmitAssessment)
			authed.POST("/:id/approve", c.AssessmentHandler.ApproveAssessment)
			authed.POST("/:id/reject", c.AssessmentHandler.RejectAssessment)
		}
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	reviews.Use(middleware.RequireIdentity())
	{
		reviews.POST("/:id/vote", c.ReviewHandler.ToggleHelpfulVote)
	}
}

// ========================================
// CURRENT USER ROUTES
// ========================================
func setupMeRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/me")
	me.Use(middleware.RequireIdentity())
	{
		me.GET("/favorites", c.FavoriteHandler.ListFavorites)
		me.PUT("/favorites/:business_id", c.FavoriteHandler.AddFavorite)
		me.DELETE("/favorites/:business_id", c.FavoriteHandler.RemoveFavorite)
		me.POST("/favorites/:business_id/toggle", c.FavoriteHandler.ToggleFavorite)
		me.GET("/searches", c.DirectoryHandler.RecentSearches)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/assessments/pending", c.AssessmentHandler.ListPending)
	}
}
