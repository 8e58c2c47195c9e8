package handlers

import (
	"net/http"
	"strings"

	"github.com/feedforge/multimarket/internal/mapping"
	"github.com/feedforge/multimarket/internal/pipeline"
	"github.com/feedforge/multimarket/internal/registry"
	"github.com/gin-gonic/gin"
)

// PlatformHandler exposes platform schemas and attribute lookups.
type PlatformHandler struct {
	pipeline *pipeline.Pipeline
	registry *registry.Registry
	resolver *mapping.Resolver
}

// NewPlatformHandler constructs a PlatformHandler.
func NewPlatformHandler(p *pipeline.Pipeline, reg *registry.Registry, resolver *mapping.Resolver) *PlatformHandler {
	return &PlatformHandler{pipeline: p, registry: reg, resolver: resolver}
}

type columnView struct {
	Name      string `json:"name"`
	Required  bool   `json:"required"`
	Attribute string `json:"attribute,omitempty"`
}

type platformView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Locale  string       `json:"locale"`
	Columns []columnView `json:"columns"`
}

// List returns every configured platform profile in template order.
func (h *PlatformHandler) List(c *gin.Context) {
	profiles := h.pipeline.Profiles()
	views := make([]platformView, 0, len(profiles))
	for _, profile := range profiles {
		view := platformView{
			ID:      profile.ID,
			Name:    profile.Name,
			Locale:  profile.Locale,
			Columns: make([]columnView, 0, len(profile.Columns)),
		}
		for _, col := range profile.Columns {
			attributeID, _ := h.resolver.AttributeFor(profile.ID, col.Name)
			view.Columns = append(view.Columns, columnView{
				Name:      col.Name,
				Required:  col.Required,
				Attribute: attributeID,
			})
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"platforms": views})
}

type attributeView struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Category     string `json:"category"`
	Domain       string `json:"domain"`
	Strictness   string `json:"strictness"`
	Translatable bool   `json:"translatable"`
}

// Attributes returns the canonical attribute set.
func (h *PlatformHandler) Attributes(c *gin.Context) {
	attrs := h.registry.All()
	views := make([]attributeView, 0, len(attrs))
	for _, attr := range attrs {
		views = append(views, attributeView{
			ID:           attr.ID,
			Label:        attr.Label,
			Category:     string(attr.Category),
			Domain:       string(attr.Domain),
			Strictness:   string(attr.Strictness),
			Translatable: attr.Translatable,
		})
	}
	c.JSON(http.StatusOK, gin.H{"attributes": views})
}

// ReverseResolve maps a raw platform column header to candidate
// canonical attributes, for ingesting existing platform schemas.
func (h *PlatformHandler) ReverseResolve(c *gin.Context) {
	platformID := strings.TrimSpace(c.Param("id"))
	column := strings.TrimSpace(c.Query("column"))
	if column == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing column parameter"})
		return
	}
	candidates := h.resolver.ReverseResolve(platformID, column)
	c.JSON(http.StatusOK, gin.H{"column": column, "candidates": candidates})
}
