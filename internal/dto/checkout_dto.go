package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockpos/internal/service"
)

type SaleResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Date        time.Time       `json:"date"`
	Actor       string          `json:"actor"`
	Mode        string          `json:"mode"`
}

type CheckoutResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TransactionID string          `json:"transaction_id"`
	Total         decimal.Decimal `json:"total"`
	Date          time.Time       `json:"date"`
	Bulk          bool            `json:"bulk"`
	Warning       string          `json:"warning,omitempty"`
	Sales         []SaleResponse  `json:"sales"`
}

func FromCheckout(res *service.Result) CheckoutResponse {
	sales := make([]SaleResponse, len(res.Sales))
	for i, s := range res.Sales {
		sales[i] = SaleResponse{
			ID:          s.ID,
			InvoiceID:   s.InvoiceID,
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			Total:       s.Total,
			Date:        s.Date,
			Actor:       s.Actor,
			Mode:        s.Mode,
		}
	}
	return CheckoutResponse{
		InvoiceID:     res.Invoice.ID,
		InvoiceNumber: res.Invoice.InvoiceNumber,
		TransactionID: res.Invoice.TransactionID,
		Total:         res.Invoice.Total,
		Date:          res.Invoice.Date,
		Bulk:          res.Bulk,
		Warning:       res.Warning,
		Sales:         sales,
	}
}
