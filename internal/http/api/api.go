package api

import (
	"github.com/feedforge/multimarket/internal/http/api/handlers"
	"github.com/feedforge/multimarket/internal/mapping"
	"github.com/feedforge/multimarket/internal/pipeline"
	"github.com/feedforge/multimarket/internal/quota"
	"github.com/feedforge/multimarket/internal/registry"
	"github.com/feedforge/multimarket/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps holds everything the HTTP surface needs.
type Deps struct {
	DB       *gorm.DB
	Registry *registry.Registry
	Resolver *mapping.Resolver
	Pipeline *pipeline.Pipeline
	Quota    *quota.Manager
	Runs     *store.GormRunStore
}

// RegisterRoutes registers all HTTP routes and handlers.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	if r == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(deps.DB)
	r.GET("/healthz", healthHandler.Healthz)

	v0 := r.Group("/v0")

	quotaHandler := handlers.NewQuotaHandler(deps.Quota)
	v0.GET("/quota", quotaHandler.Usage)

	platformHandler := handlers.NewPlatformHandler(deps.Pipeline, deps.Registry, deps.Resolver)
	v0.GET("/platforms", platformHandler.List)
	v0.GET("/platforms/:id/reverse-resolve", platformHandler.ReverseResolve)
	v0.GET("/attributes", platformHandler.Attributes)

	transformHandler := handlers.NewTransformHandler(deps.Pipeline, deps.Runs)
	v0.POST("/transform", transformHandler.Transform)

	runHandler := handlers.NewRunHandler(deps.Runs)
	v0.GET("/runs", runHandler.List)
}
