package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetFeed(c *gin.Context) {
	feed, err := s.feedSvc.Generate(c.Request.Context(), audience(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}
