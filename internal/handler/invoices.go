package handler

import (
	"net/http"
	"os"
	"strings"

	"stockpos/internal/apierror"
	"stockpos/internal/infra"

	"github.com/gin-gonic/gin"
)

// InvoicesHandler serves rendered invoice PDFs. Rendering happens in the
// invoice worker; this only reads what the worker already produced.
type InvoicesHandler struct{ storagePath string }

func NewInvoicesHandler(storagePath string) *InvoicesHandler {
	return &InvoicesHandler{storagePath: storagePath}
}

func (h *InvoicesHandler) DownloadPDF(c *gin.Context) {
	id := c.Param("id")
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid invoice id"))
		return
	}
	path := infra.InvoicePDFPath(h.storagePath, id)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Invoice PDF not available yet"))
		return
	}
	c.FileAttachment(path, "invoice_"+c.Param("id")+".pdf")
}
