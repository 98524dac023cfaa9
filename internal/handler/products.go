package handler

import (
	"net/http"

	"stockpos/internal/dto"
	"stockpos/internal/middleware"
	"stockpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct {
	catalog  service.CatalogService
	checkout service.CheckoutService
}

func NewProductsHandler(catalog service.CatalogService, checkout service.CheckoutService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog, checkout: checkout}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.catalog.Create(c.Request.Context(), service.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Supplier:    req.Supplier,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
		MinStock:    req.MinStock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromProduct(p))
}

func (h *ProductsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromProducts(h.catalog.List()))
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	p, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProduct(p))
}

func (h *ProductsHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.catalog.Update(c.Request.Context(), c.Param("id"), service.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Supplier:    req.Supplier,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
		MinStock:    req.MinStock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProduct(p))
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) Restock(c *gin.Context) {
	var req dto.RestockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actor := ""
	if claims != nil {
		actor = claims.Email
	}
	p, err := h.catalog.Restock(c.Request.Context(), c.Param("id"), req.Amount, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProduct(p))
}

// Sell is the "mark as sold" shortcut on a product card: a one-line checkout
// without a session cart. Quantity defaults to 1.
func (h *ProductsHandler) Sell(c *gin.Context) {
	var req dto.QuickSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	actor, mode := actorFrom(c)
	res, err := h.checkout.QuickSale(c.Request.Context(), c.Param("id"), req.Quantity, actor, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCheckout(res))
}
