package server

import (
	"net/http"

	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/druckhaus/storefront/internal/pricing/present"
	"github.com/gin-gonic/gin"
)

// GetCalculator returns the configurator projection for one product: option
// groups, dimension limits, quantity bounds and the derived from-price.
func (s *Server) GetCalculator(c *gin.Context) {
	data, err := s.pricingSvc.CalculatorData(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

type calculateResponse struct {
	Result  *pricingdomain.PriceResult `json:"result"`
	Display pricingdomain.DisplayPrice `json:"display"`
}

// Calculate prices one configuration and returns the result in both raw and
// audience-facing form.
func (s *Server) Calculate(c *gin.Context) {
	var params pricingdomain.Params
	if err := c.ShouldBindJSON(&params); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.pricingSvc.Calculate(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, calculateResponse{
		Result:  result,
		Display: present.Present(result, audience(c)),
	})
}
