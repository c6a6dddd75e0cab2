package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) DownloadQuote(c *gin.Context) {
	reader, err := s.quoteSvc.GeneratePDF(c.Request.Context(), s.cartID(c), audience(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="quote.pdf"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

type emailQuoteRequest struct {
	Recipient string `json:"recipient"`
}

func (s *Server) EmailQuote(c *gin.Context) {
	var req emailQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" || !strings.Contains(recipient, "@") {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.quoteSvc.EmailQuote(c.Request.Context(), s.cartID(c), recipient); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}
