package server

import (
	"github.com/gin-gonic/gin"

	"draftsync/auth"
)

// RegisterRoutes mounts the document API behind the auth middleware.
func RegisterRoutes(router *gin.Engine, handler *Handler, tokens *auth.Tokens) {
	authed := router.Group("/", auth.Middleware(tokens))
	authed.POST("/documents", handler.Create)
	authed.GET("/documents", handler.List)
	authed.GET("/documents/:id", handler.Show)
	authed.PUT("/documents/:id", handler.Update)
	authed.DELETE("/documents/:id", handler.Delete)
}
