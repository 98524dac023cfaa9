package handler

import (
	"net/http"

	"stockpos/internal/apierror"
	"stockpos/internal/cart"
	"stockpos/internal/dto"
	"stockpos/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	sessions *cart.Sessions
	svc      service.CheckoutService
}

func NewCheckoutHandler(sessions *cart.Sessions, svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, svc: svc}
}

// Checkout commits the session's cart. The cart survives a rejected
// checkout untouched so the cashier can adjust it and retry.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, apierror.New("X-Session-ID header required"))
		return
	}
	actor, mode := actorFrom(c)
	res, err := h.svc.Checkout(c.Request.Context(), h.sessions.Get(sid), actor, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCheckout(res))
}
