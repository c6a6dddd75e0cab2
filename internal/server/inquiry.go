package server

import (
	"net/http"

	inquirydomain "github.com/druckhaus/storefront/internal/inquiry/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateInquiry(c *gin.Context) {
	var req inquirydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ProductID = c.Param("id")

	inquiry, err := s.inquirySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inquiry)
}
