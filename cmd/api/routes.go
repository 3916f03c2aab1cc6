package main

import (
	"database/sql"

	"itembuildup/internal/httpapi"

	"github.com/gin-gonic/gin"
)

const uploadsRoute = "/uploads"

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, pg *sql.DB, uploadDir string) {
	// public
	r.GET("/healthz", healthHandler(pg))
	r.Static(uploadsRoute, uploadDir)

	httpapi.Register(r, h, authMW)
}
