package server

import (
	"net/http"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type productListResponse struct {
	Products []catalogdomain.Product `json:"products"`
	PageInfo *pagination.PageInfo    `json:"page_info"`
}

func (s *Server) ListProducts(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	products, total, err := s.catalogSvc.ListProducts(c.Request.Context(), page.PageSize, cursor.Offset)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, productListResponse{
		Products: products,
		PageInfo: pagination.BuildPageInfo(cursor.Offset, len(products), total),
	})
}

func (s *Server) GetProduct(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, catalogdomain.ErrProductNotFound)
		return
	}

	product, err := s.catalogSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
