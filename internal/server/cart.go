package server

import (
	"net/http"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) AddCartItem(c *gin.Context) {
	var req cartdomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	line, err := s.cartSvc.AddItem(c.Request.Context(), s.cartID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (s *Server) GetCart(c *gin.Context) {
	view, err := s.cartSvc.GetCart(c.Request.Context(), s.cartID(c), audience(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) RemoveCartItem(c *gin.Context) {
	lineID, err := snowflake.ParseString(c.Param("lineId"))
	if err != nil {
		AbortWithError(c, cartdomain.ErrLineNotFound)
		return
	}

	if err := s.cartSvc.RemoveItem(c.Request.Context(), s.cartID(c), lineID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) RevalidateCart(c *gin.Context) {
	report, err := s.cartSvc.Revalidate(c.Request.Context(), s.cartID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
