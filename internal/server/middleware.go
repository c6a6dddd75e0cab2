package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/druckhaus/storefront/internal/observability/metrics"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-Id"
	headerCartID    = "X-Cart-Id"
	cartCookieName  = "cart_id"
)

// RequestLogging attaches a request ID and emits one structured line per
// request.
func RequestLogging(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// audience reads the presentation audience from the query string. Anything
// other than an explicit b2b request is treated as a consumer.
func audience(c *gin.Context) pricingdomain.Audience {
	if strings.EqualFold(c.Query("audience"), string(pricingdomain.AudienceB2B)) {
		return pricingdomain.AudienceB2B
	}
	return pricingdomain.AudienceB2C
}

// cartID resolves the caller's cart, minting a new one on first contact. The
// ID travels as a cookie for browsers and as a header for API clients.
func (s *Server) cartID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerCartID)); id != "" {
		return id
	}
	if id, err := c.Cookie(cartCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	id := uuid.NewString()
	c.SetCookie(cartCookieName, id, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return id
}
