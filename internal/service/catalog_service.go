package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stockpos/internal/id"
	"stockpos/internal/ledger"
	"stockpos/internal/model"
	"stockpos/internal/notify"
	"stockpos/internal/store"
)

// ProductInput carries the user-editable fields of a product. The service
// owns identity and timestamps.
type ProductInput struct {
	Name        string
	Category    string
	Supplier    string
	Description string
	Quantity    int
	Price       decimal.Decimal
	MinStock    int
}

// CatalogService owns the product collection: CRUD plus the restock
// operation. Reads come from the in-memory ledger; writes go to the store
// and flow back through the snapshot subscription.
type CatalogService interface {
	Create(ctx context.Context, in ProductInput) (model.Product, error)
	Get(productID string) (model.Product, error)
	List() []model.Product
	Update(ctx context.Context, productID string, in ProductInput) (model.Product, error)
	Delete(ctx context.Context, productID string) error
	Restock(ctx context.Context, productID string, amount int, actor string) (model.Product, error)
}

type catalogService struct {
	st         store.Store
	ledger     *ledger.Ledger
	notifier   notify.Notifier
	dispatcher Dispatcher
}

func NewCatalogService(st store.Store, l *ledger.Ledger, notifier notify.Notifier, dispatcher Dispatcher) CatalogService {
	return &catalogService{st: st, ledger: l, notifier: notifier, dispatcher: dispatcher}
}

func (s *catalogService) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	p, err := model.NewProduct(id.New(id.Product), in.Name, in.Category, in.Supplier, in.Description, in.Quantity, in.Price, in.MinStock)
	if err != nil {
		return model.Product{}, err
	}
	if err := s.st.CreateOrReplace(ctx, store.Products, p.ID, p.Fields()); err != nil {
		return model.Product{}, fmt.Errorf("catalog: create %s: %w", p.ID, err)
	}
	s.notifier.Notify(fmt.Sprintf("Product %q added", p.Name), notify.Success)
	return p, nil
}

func (s *catalogService) Get(productID string) (model.Product, error) {
	p, ok := s.ledger.Get(productID)
	if !ok {
		return model.Product{}, store.ErrNotFound
	}
	return p, nil
}

// List returns the ledger's current view sorted by name, ties broken by ID
// so pagination over equal names stays stable.
func (s *catalogService) List() []model.Product {
	current := s.ledger.Current()
	products := make([]model.Product, 0, len(current))
	for _, p := range current {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID < products[j].ID
	})
	return products
}

// Update edits the user-editable fields in place. createdAt is untouched; a
// merge write never rewrites it.
func (s *catalogService) Update(ctx context.Context, productID string, in ProductInput) (model.Product, error) {
	if _, ok := s.ledger.Get(productID); !ok {
		return model.Product{}, store.ErrNotFound
	}
	p, err := model.NewProduct(productID, in.Name, in.Category, in.Supplier, in.Description, in.Quantity, in.Price, in.MinStock)
	if err != nil {
		return model.Product{}, err
	}
	err = s.st.Update(ctx, store.Products, productID, map[string]any{
		"name":        p.Name,
		"category":    p.Category,
		"supplier":    p.Supplier,
		"description": p.Description,
		"quantity":    p.Quantity,
		"price":       p.Price.StringFixed(2),
		"minStock":    p.MinStock,
		"updatedAt":   store.ServerTimestamp(),
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("catalog: update %s: %w", productID, err)
	}
	return p, nil
}

func (s *catalogService) Delete(ctx context.Context, productID string) error {
	p, ok := s.ledger.Get(productID)
	if !ok {
		return store.ErrNotFound
	}
	if err := s.st.Delete(ctx, store.Products, productID); err != nil {
		return fmt.Errorf("catalog: delete %s: %w", productID, err)
	}
	s.notifier.Notify(fmt.Sprintf("Product %q deleted", p.Name), notify.Success)
	return nil
}

// Restock adds stock to one product. Requires an administrator identity and
// a positive amount; on success a confirmation email job is enqueued.
func (s *catalogService) Restock(ctx context.Context, productID string, amount int, actor string) (model.Product, error) {
	if actor == "" {
		return model.Product{}, ErrUnauthorized
	}
	if amount < 1 {
		return model.Product{}, &model.FieldError{Field: "amount", Reason: "must be >= 1"}
	}
	p, ok := s.ledger.Get(productID)
	if !ok {
		return model.Product{}, store.ErrNotFound
	}

	err := s.st.Update(ctx, store.Products, productID, map[string]any{
		"quantity":  p.Quantity + amount,
		"updatedAt": store.ServerTimestamp(),
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("catalog: restock %s: %w", productID, err)
	}

	p.Quantity += amount
	s.notifier.Notify(fmt.Sprintf("Restocked %q: +%d units (now %d)", p.Name, amount, p.Quantity), notify.Success)

	// Confirmation email is best-effort; the stock write already landed.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRestockConfirmation(ctx, p, amount); err != nil {
			log.Error().Err(err).Str("product_id", productID).Msg("catalog: restock confirmation dispatch failed")
		}
	}
	return p, nil
}
