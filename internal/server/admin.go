package server

import (
	"net/http"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetShopSettings(c *gin.Context) {
	snap, err := s.settingsSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) UpdateShopSettings(c *gin.Context) {
	var req settingsdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	snap, err := s.settingsSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateProductPricing applies an admin pricing edit. The catalog service
// invalidates the calculator's cached configuration before this returns, so a
// follow-up calculate already sees the new price.
func (s *Server) UpdateProductPricing(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, catalogdomain.ErrProductNotFound)
		return
	}

	var req catalogdomain.UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	product, err := s.catalogSvc.UpdatePricing(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
