package store

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Categories ---

// CreateCategoryParams holds the fields for a new category.
type CreateCategoryParams struct {
	Name      string
	Icon      string
	SortOrder int32
	IsActive  bool
}

// CreateCategory adds a menu category.
func (s *Store) CreateCategory(_ context.Context, arg CreateCategoryParams) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Category{
		ID:        uuid.New(),
		Name:      arg.Name,
		Icon:      arg.Icon,
		SortOrder: arg.SortOrder,
		IsActive:  arg.IsActive,
	}
	s.categories[c.ID] = &c
	return c, nil
}

// UpdateCategoryParams holds the editable category fields.
type UpdateCategoryParams struct {
	ID        uuid.UUID
	Name      string
	Icon      string
	SortOrder int32
	IsActive  bool
}

// UpdateCategory replaces the editable fields of a category.
func (s *Store) UpdateCategory(_ context.Context, arg UpdateCategoryParams) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[arg.ID]
	if !ok {
		return Category{}, ErrNotFound
	}
	c.Name = arg.Name
	c.Icon = arg.Icon
	c.SortOrder = arg.SortOrder
	c.IsActive = arg.IsActive
	return *c, nil
}

// DeleteCategory removes a category. Products keep their category
// reference; the menu simply stops listing them under it.
func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// ListActiveCategories returns active categories in menu order.
func (s *Store) ListActiveCategories(_ context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// --- Products ---

// CreateProductParams holds the fields for a new product, including its
// nested variations and additionals.
type CreateProductParams struct {
	CategoryID  uuid.UUID
	Name        string
	Code        string
	Price       decimal.Decimal
	IsActive    bool
	Variations  []Variation
	Additionals []Additional
}

// CreateProduct adds a menu product. Variations and additionals without
// an ID are assigned one.
func (s *Store) CreateProduct(_ context.Context, arg CreateProductParams) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:          uuid.New(),
		CategoryID:  arg.CategoryID,
		Name:        arg.Name,
		Code:        arg.Code,
		Price:       arg.Price,
		IsActive:    arg.IsActive,
		Variations:  assignVariationIDs(arg.Variations),
		Additionals: assignAdditionalIDs(arg.Additionals),
	}
	s.products[p.ID] = &p
	return cloneProduct(&p), nil
}

// UpdateProductParams holds the editable product fields.
type UpdateProductParams struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Code        string
	Price       decimal.Decimal
	IsActive    bool
	Variations  []Variation
	Additionals []Additional
}

// UpdateProduct replaces the editable fields of a product. Line items
// already created keep their frozen prices and option snapshots.
func (s *Store) UpdateProduct(_ context.Context, arg UpdateProductParams) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[arg.ID]
	if !ok {
		return Product{}, ErrNotFound
	}
	p.CategoryID = arg.CategoryID
	p.Name = arg.Name
	p.Code = arg.Code
	p.Price = arg.Price
	p.IsActive = arg.IsActive
	p.Variations = assignVariationIDs(arg.Variations)
	p.Additionals = assignAdditionalIDs(arg.Additionals)
	return cloneProduct(p), nil
}

// DeleteProduct removes a product from the catalog.
func (s *Store) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// GetProduct returns the product with the given ID.
func (s *Store) GetProduct(_ context.Context, id uuid.UUID) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return cloneProduct(p), nil
}

// ListActiveProductsParams filters the product listing.
type ListActiveProductsParams struct {
	CategoryID uuid.NullUUID
}

// ListActiveProducts returns active products, optionally restricted to
// one category, ordered by product code.
func (s *Store) ListActiveProducts(_ context.Context, arg ListActiveProductsParams) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		if arg.CategoryID.Valid && p.CategoryID != arg.CategoryID.UUID {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func assignVariationIDs(vs []Variation) []Variation {
	out := make([]Variation, len(vs))
	for i, v := range vs {
		out[i] = v
		if out[i].ID == uuid.Nil {
			out[i].ID = uuid.New()
		}
		if v.Options != nil {
			out[i].Options = append([]string(nil), v.Options...)
		}
	}
	return out
}

func assignAdditionalIDs(as []Additional) []Additional {
	out := make([]Additional, len(as))
	for i, a := range as {
		out[i] = a
		if out[i].ID == uuid.Nil {
			out[i].ID = uuid.New()
		}
	}
	return out
}
