package server

import (
	"errors"
	"net/http"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	inquirydomain "github.com/druckhaus/storefront/internal/inquiry/domain"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var selErr *pricingdomain.SelectionError
	var boundsErr *pricingdomain.BoundsError
	var cfgErr *pricingdomain.ConfigurationError

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}

	case errors.As(err, &selErr):
		field := "selected_options"
		code := "unknown_option"
		message := selErr.Error()
		if selErr.MissingGroup {
			code = "missing_selection"
		}
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  []ValidationError{{Field: field, Code: code, Message: message}},
		}

	case errors.As(err, &boundsErr):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{{
				Field:   boundsErr.Field,
				Code:    "out_of_bounds",
				Message: boundsErr.Error(),
			}},
		}

	case errors.Is(err, pricingdomain.ErrSnapshotNotBillable):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "not_billable",
			Message: "product is priced on request and cannot be added to the cart",
		}

	case errors.Is(err, cartdomain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "cart_empty",
			Message: "cart has no lines",
		}

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, inquirydomain.ErrInvalidInquiry),
		errors.Is(err, catalogdomain.ErrInvalidPricing),
		errors.Is(err, settingsdomain.ErrInvalidVatRate),
		errors.Is(err, settingsdomain.ErrInvalidCurrency):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}

	case errors.As(err, &cfgErr),
		errors.Is(err, settingsdomain.ErrNotConfigured):
		// Data integrity problems are the operator's fault, never the buyer's.
		return http.StatusInternalServerError, errorPayload{
			Type:    "configuration_error",
			Message: "pricing configuration invalid",
		}

	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, pricingdomain.ErrProductNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, cartdomain.ErrLineNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
