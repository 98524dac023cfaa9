package handler

import (
	"net/http"

	"stockpos/internal/apierror"
	"stockpos/internal/cart"
	"stockpos/internal/dto"

	"github.com/gin-gonic/gin"
)

// CartHandler exposes the per-session cart. Sessions are identified by the
// X-Session-ID header the cashier UI generates on load; no authentication.
type CartHandler struct{ sessions *cart.Sessions }

func NewCartHandler(sessions *cart.Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// cartFor resolves the session's cart, rejecting requests without the
// session header.
func (h *CartHandler) cartFor(c *gin.Context) (*cart.Cart, string, bool) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, apierror.New("X-Session-ID header required"))
		return nil, "", false
	}
	return h.sessions.Get(sid), sid, true
}

func (h *CartHandler) Get(c *gin.Context) {
	ct, sid, ok := h.cartFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromCart(sid, ct.Lines(), ct.Total()))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	ct, sid, ok := h.cartFor(c)
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := ct.Add(req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCart(sid, ct.Lines(), ct.Total()))
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	ct, sid, ok := h.cartFor(c)
	if !ok {
		return
	}
	var req dto.SetQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := ct.SetQuantity(c.Param("product_id"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCart(sid, ct.Lines(), ct.Total()))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ct, sid, ok := h.cartFor(c)
	if !ok {
		return
	}
	ct.Remove(c.Param("product_id"))
	c.JSON(http.StatusOK, dto.FromCart(sid, ct.Lines(), ct.Total()))
}

// Clear cancels the in-progress sale and drops the session's cart.
func (h *CartHandler) Clear(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		c.JSON(http.StatusBadRequest, apierror.New("X-Session-ID header required"))
		return
	}
	h.sessions.Drop(sid)
	c.Status(http.StatusNoContent)
}
