package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cv-studio/pkg/auth"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type Handlers struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Document *DocumentHandler
	Share    *ShareHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, log)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/login", h.Auth.Login)

		public := api.Group("/public")
		{
			public.GET("/cv/:token", h.Share.GetPublicCV)
			public.GET("/cv/:token/pdf", h.Share.GetPublicCVPDF)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			profile := private.Group("/profile")
			{
				profile.GET("", h.Profile.GetProfile)
				profile.PUT("", h.Profile.UpdateProfile)
				profile.POST("/photo", h.Profile.UploadPhoto)
				profile.GET("/completion", h.Profile.GetCompletion)
				profile.POST("/import", h.Profile.ImportProfile)

				profile.GET("/entities/:kind", h.Profile.ListEntities)
				profile.POST("/entities/:kind", h.Profile.CreateEntity)
				profile.PUT("/entities/:kind/:id", h.Profile.UpdateEntity)
				profile.DELETE("/entities/:kind/:id", h.Profile.DeleteEntity)
			}

			documents := private.Group("/documents")
			{
				documents.POST("", h.Document.CreateDocument)
				documents.GET("", h.Document.ListDocuments)
				documents.GET("/:id", h.Document.GetDocument)
				documents.DELETE("/:id", h.Document.DeleteDocument)
				documents.PUT("/:id/layout", h.Document.SetLayout)
				documents.GET("/:id/layout", h.Document.GetLayout)
				documents.GET("/:id/selections/:kind", h.Document.ListSelections)
				documents.PUT("/:id/selections/:kind", h.Document.UpsertSelections)
				documents.GET("/:id/composed", h.Document.GetComposed)
				documents.GET("/:id/export", h.Document.Export)
				documents.POST("/:id/shares", h.Share.CreateShareLink)
				documents.GET("/:id/shares", h.Share.ListShareLinks)
			}

			private.DELETE("/shares/:id", h.Share.DeactivateShareLink)
		}
	}

	return router
}
