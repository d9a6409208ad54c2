package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/enum"
	"github.com/lanchonete-pos/api/internal/store"
	"github.com/shopspring/decimal"
)

// Errors returned by the order ledger.
var (
	ErrCustomerName         = errors.New("customer_name is required")
	ErrTableNotFound        = errors.New("table not found")
	ErrTableNotFree         = errors.New("table already has an order")
	ErrOrderNotFound        = errors.New("order not found")
	ErrItemNotFound         = errors.New("item not found in order")
	ErrOrderNotOpen         = errors.New("order is no longer open")
	ErrNotAwaitingPayment   = errors.New("order is not awaiting payment")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInactive      = errors.New("product is not active")
	ErrVariationRequired    = errors.New("required variation not selected")
	ErrUnknownVariation     = errors.New("variation not declared by product")
	ErrUnknownOption        = errors.New("option not declared by variation")
	ErrAdditionalNotFound   = errors.New("additional does not belong to product")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// OrderStore defines the store methods the ledger needs for orders.
// Satisfied by *store.Store; narrow interface for testability.
type OrderStore interface {
	InsertOrder(ctx context.Context, o store.Order) (store.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, fn func(*store.Order) error) (store.Order, error)
}

// TableStore defines the table state machine surface the ledger drives.
// Order transitions call SetTableStatus; nothing else does.
type TableStore interface {
	GetTable(ctx context.Context, id uuid.UUID) (store.Table, error)
	SetTableStatus(ctx context.Context, id uuid.UUID, status string, orderID uuid.NullUUID) (store.Table, error)
}

// ProductStore defines the read-only catalog surface the ledger consumes.
type ProductStore interface {
	GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error)
}

// Ledger owns the canonical order list and its derived totals, and
// drives table occupancy as a side effect of order transitions. The
// coupling is one-directional: table status never changes on its own.
type Ledger struct {
	orders   OrderStore
	tables   TableStore
	products ProductStore
	now      func() time.Time
}

// NewLedger creates a Ledger over the given stores.
func NewLedger(orders OrderStore, tables TableStore, products ProductStore) *Ledger {
	return &Ledger{
		orders:   orders,
		tables:   tables,
		products: products,
		now:      time.Now,
	}
}

// CreateOrderRequest is the validated input for opening a table.
type CreateOrderRequest struct {
	TableID      uuid.UUID
	CustomerName string
	WaiterID     uuid.UUID
	WaiterName   string
}

// CreateOrder opens a new tab on a free table: an empty open order with
// total zero, with the table moved to active and bound to it.
func (l *Ledger) CreateOrder(ctx context.Context, req CreateOrderRequest) (store.Order, error) {
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return store.Order{}, ErrCustomerName
	}

	table, err := l.tables.GetTable(ctx, req.TableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Order{}, ErrTableNotFound
		}
		return store.Order{}, fmt.Errorf("get table: %w", err)
	}
	if table.Status != enum.TableStatusFree {
		return store.Order{}, ErrTableNotFree
	}

	order := store.Order{
		ID:           uuid.New(),
		TableID:      table.ID,
		TableNumber:  table.Number,
		CustomerName: customer,
		WaiterID:     req.WaiterID,
		WaiterName:   req.WaiterName,
		Status:       enum.OrderStatusOpen,
		Total:        decimal.Zero,
		CreatedAt:    l.now(),
	}

	created, err := l.orders.InsertOrder(ctx, order)
	if err != nil {
		return store.Order{}, fmt.Errorf("insert order: %w", err)
	}

	if _, err := l.tables.SetTableStatus(ctx, table.ID, enum.TableStatusActive,
		uuid.NullUUID{UUID: created.ID, Valid: true}); err != nil {
		return store.Order{}, fmt.Errorf("bind table: %w", err)
	}

	return created, nil
}

// AddItemRequest is the input for appending a line item to an order.
// Variations maps a variation name to the chosen option.
type AddItemRequest struct {
	ProductID     uuid.UUID
	Quantity      int32
	Variations    map[string]string
	AdditionalIDs []uuid.UUID
	Notes         string
}

// AddItem appends a line item to an open order. The unit price is
// frozen here: product price plus the selected additionals' prices at
// this moment. Later catalog edits do not touch existing items. The
// order total is recomputed; order and table status never change.
func (l *Ledger) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (store.LineItem, error) {
	if req.Quantity <= 0 {
		return store.LineItem{}, ErrInvalidQuantity
	}

	product, err := l.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.LineItem{}, ErrProductNotFound
		}
		return store.LineItem{}, fmt.Errorf("get product: %w", err)
	}
	if !product.IsActive {
		return store.LineItem{}, ErrProductInactive
	}

	choices, err := resolveVariations(product, req.Variations)
	if err != nil {
		return store.LineItem{}, err
	}
	additionals, additionalsTotal, err := resolveAdditionals(product, req.AdditionalIDs)
	if err != nil {
		return store.LineItem{}, err
	}

	unitPrice := product.Price.Add(additionalsTotal)
	item := store.LineItem{
		ID:          uuid.New(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt32(req.Quantity)),
		Variations:  choices,
		Additionals: additionals,
		Notes:       strings.TrimSpace(req.Notes),
	}

	if _, err := l.mutateOpenOrder(ctx, orderID, func(o *store.Order) error {
		o.Items = append(o.Items, item)
		return nil
	}); err != nil {
		return store.LineItem{}, err
	}
	return item, nil
}

// UpdateItemQuantity changes a line item's quantity. A quantity of zero
// or less removes the item instead; that is the agreed policy, not an
// error. The unit price is never recomputed here.
func (l *Ledger) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int32) (store.Order, error) {
	if quantity <= 0 {
		return l.RemoveItem(ctx, orderID, itemID)
	}

	return l.mutateOpenOrder(ctx, orderID, func(o *store.Order) error {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items[i].Quantity = quantity
				o.Items[i].TotalPrice = o.Items[i].UnitPrice.Mul(decimal.NewFromInt32(quantity))
				return nil
			}
		}
		return ErrItemNotFound
	})
}

// RemoveItem deletes a line item. Removing an absent item is a no-op;
// an order may legitimately return to zero items and zero total.
func (l *Ledger) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (store.Order, error) {
	return l.mutateOpenOrder(ctx, orderID, func(o *store.Order) error {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items = append(o.Items[:i], o.Items[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Checkout moves an open, non-empty order to pending_payment and the
// table to pending. One-way gate: items can no longer be mutated.
func (l *Ledger) Checkout(ctx context.Context, orderID uuid.UUID) (store.Order, error) {
	order, err := l.orders.UpdateOrder(ctx, orderID, func(o *store.Order) error {
		if o.Status != enum.OrderStatusOpen {
			return ErrOrderNotOpen
		}
		if len(o.Items) == 0 {
			return ErrEmptyOrder
		}
		o.Status = enum.OrderStatusPendingPayment
		return nil
	})
	if err != nil {
		return store.Order{}, mapOrderErr(err)
	}

	if _, err := l.tables.SetTableStatus(ctx, order.TableID, enum.TableStatusPending,
		uuid.NullUUID{UUID: order.ID, Valid: true}); err != nil {
		return store.Order{}, fmt.Errorf("set table pending: %w", err)
	}
	return order, nil
}

// CompletePayment settles a pending order: status paid, payment method
// and paid timestamp recorded, table released. Terminal; nothing on the
// order may change afterwards.
func (l *Ledger) CompletePayment(ctx context.Context, orderID uuid.UUID, method string) (store.Order, error) {
	if !isValidPaymentMethod(method) {
		return store.Order{}, ErrInvalidPaymentMethod
	}

	paidAt := l.now()
	order, err := l.orders.UpdateOrder(ctx, orderID, func(o *store.Order) error {
		if o.Status != enum.OrderStatusPendingPayment {
			return ErrNotAwaitingPayment
		}
		o.Status = enum.OrderStatusPaid
		o.PaymentMethod = method
		o.PaidAt = &paidAt
		return nil
	})
	if err != nil {
		return store.Order{}, mapOrderErr(err)
	}

	if _, err := l.tables.SetTableStatus(ctx, order.TableID, enum.TableStatusFree,
		uuid.NullUUID{}); err != nil {
		return store.Order{}, fmt.Errorf("release table: %w", err)
	}
	return order, nil
}

// --- Helpers ---

// mutateOpenOrder is the single write path for line items. Every item
// mutation goes through here, so the total cannot drift from the items.
func (l *Ledger) mutateOpenOrder(ctx context.Context, orderID uuid.UUID, fn func(*store.Order) error) (store.Order, error) {
	order, err := l.orders.UpdateOrder(ctx, orderID, func(o *store.Order) error {
		if o.Status != enum.OrderStatusOpen {
			return ErrOrderNotOpen
		}
		if err := fn(o); err != nil {
			return err
		}
		o.Total = recomputeTotal(o.Items)
		return nil
	})
	if err != nil {
		return store.Order{}, mapOrderErr(err)
	}
	return order, nil
}

func mapOrderErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}

// recomputeTotal derives the order total from its line items.
func recomputeTotal(items []store.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}

// resolveVariations checks the chosen options against the product's
// declared variation groups. Every required group needs a selection and
// every selection must name a declared group and option. Choices come
// back in the product's declaration order.
func resolveVariations(product store.Product, chosen map[string]string) ([]store.VariationChoice, error) {
	var choices []store.VariationChoice
	matched := 0
	for _, v := range product.Variations {
		option, ok := chosen[v.Name]
		if !ok {
			if v.Required {
				return nil, fmt.Errorf("variation %q: %w", v.Name, ErrVariationRequired)
			}
			continue
		}
		if !containsOption(v.Options, option) {
			return nil, fmt.Errorf("variation %q: %w", v.Name, ErrUnknownOption)
		}
		choices = append(choices, store.VariationChoice{Variation: v.Name, Option: option})
		matched++
	}
	if matched != len(chosen) {
		for name := range chosen {
			if !productDeclaresVariation(product, name) {
				return nil, fmt.Errorf("variation %q: %w", name, ErrUnknownVariation)
			}
		}
	}
	return choices, nil
}

func containsOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

func productDeclaresVariation(product store.Product, name string) bool {
	for _, v := range product.Variations {
		if v.Name == name {
			return true
		}
	}
	return false
}

// resolveAdditionals maps selected additional IDs to name/price
// snapshots and sums their prices.
func resolveAdditionals(product store.Product, ids []uuid.UUID) ([]store.AdditionalChoice, decimal.Decimal, error) {
	total := decimal.Zero
	var selected []store.AdditionalChoice
	for _, id := range ids {
		found := false
		for _, a := range product.Additionals {
			if a.ID == id {
				selected = append(selected, store.AdditionalChoice{Name: a.Name, Price: a.Price})
				total = total.Add(a.Price)
				found = true
				break
			}
		}
		if !found {
			return nil, decimal.Zero, fmt.Errorf("additional %s: %w", id, ErrAdditionalNotFound)
		}
	}
	return selected, total, nil
}

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodPix, enum.PaymentMethodCredit, enum.PaymentMethodDebit:
		return true
	}
	return false
}
