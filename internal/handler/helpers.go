package handler

import (
	"errors"
	"net/http"
	"reflect"

	"stockpos/internal/apierror"
	"stockpos/internal/cart"
	"stockpos/internal/middleware"
	"stockpos/internal/model"
	"stockpos/internal/service"
	"stockpos/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps domain errors to HTTP responses. Anything unrecognized
// goes to the ErrorHandler middleware as a 500.
func respondError(c *gin.Context, err error) {
	var fieldErr *model.FieldError
	var cartNotFound *cart.NotFoundError
	var cartOut *cart.OutOfStockError
	var cartShort *cart.InsufficientStockError
	var checkoutNotFound *service.ProductNotFoundError
	var checkoutShort *service.InsufficientStockError
	var commitErr *service.CommitError

	switch {
	case errors.Is(err, store.ErrNotFound), errors.As(err, &cartNotFound), errors.As(err, &checkoutNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &cartOut), errors.As(err, &cartShort), errors.As(err, &checkoutShort):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{fieldErr.Field: fieldErr.Reason}))
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.As(err, &commitErr):
		// Partial commit is surfaced verbatim so the operator knows exactly
		// which lines landed before the failure.
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}

// sessionID extracts the cart session header. Empty when absent; cart routes
// reject that themselves.
func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-ID")
}

// actorFrom derives (actor, mode) for a sale: the authenticated admin's email
// when a token is present, the cashier sentinel otherwise.
func actorFrom(c *gin.Context) (string, string) {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.Email, model.ModeAdmin
	}
	return model.CashierActor, model.ModeCashier
}
