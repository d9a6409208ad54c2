package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Restaurant is the single restaurant profile.
type Restaurant struct {
	ID      uuid.UUID
	Name    string
	LogoURL string
	PixKey  string
}

// Table is a physical seating unit. CurrentOrderID is valid iff Status
// is not free.
type Table struct {
	ID             uuid.UUID
	Number         int32
	Status         string
	CurrentOrderID uuid.NullUUID
}

// Category groups products on the menu.
type Category struct {
	ID        uuid.UUID
	Name      string
	Icon      string
	SortOrder int32
	IsActive  bool
}

// Variation is a named choice group on a product (e.g. doneness).
// When Required, an order item cannot be added without a selection.
type Variation struct {
	ID       uuid.UUID
	Name     string
	Options  []string
	Required bool
}

// Additional is an optional add-on with its own price.
type Additional struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// Product is a menu entry. Variations and Additionals are owned by the
// product and edited through the catalog, never by the order ledger.
type Product struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Code        string
	Price       decimal.Decimal
	IsActive    bool
	Variations  []Variation
	Additionals []Additional
}

// VariationChoice records the option chosen for one variation group.
type VariationChoice struct {
	Variation string
	Option    string
}

// AdditionalChoice records a selected add-on with the price it carried
// at the moment the line item was created.
type AdditionalChoice struct {
	Name  string
	Price decimal.Decimal
}

// LineItem is one product entry within an order. UnitPrice is frozen at
// creation time (product price plus selected additionals) and never
// re-evaluated; TotalPrice is always UnitPrice × Quantity.
type LineItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Variations  []VariationChoice
	Additionals []AdditionalChoice
	Notes       string
}

// Order is one seated party's running tab. Total is derived from the
// line items and never set independently. PaymentMethod and PaidAt stay
// zero until the order is paid.
type Order struct {
	ID            uuid.UUID
	TableID       uuid.UUID
	TableNumber   int32
	CustomerName  string
	WaiterID      uuid.UUID
	WaiterName    string
	Items         []LineItem
	Status        string
	Total         decimal.Decimal
	PaymentMethod string
	CreatedAt     time.Time
	PaidAt        *time.Time
}

// User is a staff account.
type User struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           string
	Theme          string
}

// --- Deep-copy helpers ---
//
// The store hands out copies so callers cannot mutate canonical state
// behind the mutex.

func cloneLineItem(it LineItem) LineItem {
	out := it
	if it.Variations != nil {
		out.Variations = append([]VariationChoice(nil), it.Variations...)
	}
	if it.Additionals != nil {
		out.Additionals = append([]AdditionalChoice(nil), it.Additionals...)
	}
	return out
}

func cloneOrder(o *Order) Order {
	out := *o
	if o.Items != nil {
		out.Items = make([]LineItem, len(o.Items))
		for i, it := range o.Items {
			out.Items[i] = cloneLineItem(it)
		}
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		out.PaidAt = &t
	}
	return out
}

func cloneProduct(p *Product) Product {
	out := *p
	if p.Variations != nil {
		out.Variations = make([]Variation, len(p.Variations))
		for i, v := range p.Variations {
			out.Variations[i] = v
			if v.Options != nil {
				out.Variations[i].Options = append([]string(nil), v.Options...)
			}
		}
	}
	if p.Additionals != nil {
		out.Additionals = append([]Additional(nil), p.Additionals...)
	}
	return out
}
