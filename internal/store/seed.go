package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lanchonete-pos/api/internal/enum"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const demoTableCount = 12

type seedProduct struct {
	name        string
	code        string
	price       string
	category    string
	variations  []Variation
	additionals []Additional
}

// Seed loads the demo catalog, tables, and staff accounts. The store is
// not durable, so this runs on every server start.
func Seed(ctx context.Context, s *Store) error {
	// Tables 1..N, all free.
	for n := int32(1); n <= demoTableCount; n++ {
		if _, err := s.AddTable(ctx, Table{
			ID:     uuid.New(),
			Number: n,
			Status: enum.TableStatusFree,
		}); err != nil {
			return fmt.Errorf("seed table %d: %w", n, err)
		}
	}

	categories := []CreateCategoryParams{
		{Name: "Lanches", Icon: "burger", SortOrder: 1, IsActive: true},
		{Name: "Pizzas", Icon: "pizza", SortOrder: 2, IsActive: true},
		{Name: "Bebidas", Icon: "cup", SortOrder: 3, IsActive: true},
		{Name: "Espetos", Icon: "skewer", SortOrder: 4, IsActive: true},
		{Name: "Porções", Icon: "fries", SortOrder: 5, IsActive: true},
		{Name: "Sobremesas", Icon: "cake", SortOrder: 6, IsActive: true},
	}
	categoryIDs := make(map[string]uuid.UUID, len(categories))
	for _, arg := range categories {
		c, err := s.CreateCategory(ctx, arg)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", arg.Name, err)
		}
		categoryIDs[c.Name] = c.ID
	}

	doneness := Variation{
		Name:     "Ponto da Carne",
		Options:  []string{"Mal Passado", "Ao Ponto", "Bem Passado"},
		Required: true,
	}

	products := []seedProduct{
		{name: "X-Burger", code: "001", price: "18.90", category: "Lanches",
			variations: []Variation{doneness},
			additionals: []Additional{
				{Name: "Bacon Extra", Price: decimal.RequireFromString("4.00")},
				{Name: "Ovo", Price: decimal.RequireFromString("2.50")},
			}},
		{name: "X-Salada", code: "002", price: "20.90", category: "Lanches",
			variations: []Variation{doneness}},
		{name: "X-Bacon", code: "003", price: "24.90", category: "Lanches"},
		{name: "X-Tudo", code: "004", price: "28.90", category: "Lanches"},
		{name: "Pizza Margherita", code: "010", price: "45.90", category: "Pizzas"},
		{name: "Pizza Calabresa", code: "011", price: "48.90", category: "Pizzas"},
		{name: "Pizza 4 Queijos", code: "012", price: "52.90", category: "Pizzas"},
		{name: "Coca-Cola 350ml", code: "020", price: "6.00", category: "Bebidas"},
		{name: "Guaraná 350ml", code: "021", price: "5.50", category: "Bebidas"},
		{name: "Suco Natural", code: "022", price: "8.00", category: "Bebidas"},
		{name: "Água Mineral", code: "023", price: "4.00", category: "Bebidas"},
		{name: "Espeto de Carne", code: "030", price: "8.00", category: "Espetos"},
		{name: "Espeto de Frango", code: "031", price: "7.00", category: "Espetos"},
		{name: "Espeto Misto", code: "032", price: "9.00", category: "Espetos"},
		{name: "Batata Frita", code: "040", price: "18.00", category: "Porções"},
		{name: "Onion Rings", code: "041", price: "22.00", category: "Porções"},
		{name: "Pudim", code: "050", price: "12.00", category: "Sobremesas"},
		{name: "Petit Gateau", code: "051", price: "18.00", category: "Sobremesas"},
	}
	for _, p := range products {
		if _, err := s.CreateProduct(ctx, CreateProductParams{
			CategoryID:  categoryIDs[p.category],
			Name:        p.name,
			Code:        p.code,
			Price:       decimal.RequireFromString(p.price),
			IsActive:    true,
			Variations:  p.variations,
			Additionals: p.additionals,
		}); err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}

	users := []struct {
		name, email, password, role, theme string
	}{
		{"Carlos Admin", "admin@lanchonete.com", "admin123", enum.UserRoleAdmin, "light"},
		{"João Garçom", "joao@lanchonete.com", "garcom123", enum.UserRoleWaiter, "dark"},
		{"Maria Garçom", "maria@lanchonete.com", "garcom123", enum.UserRoleWaiter, "light"},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.email, err)
		}
		if _, err := s.AddUser(ctx, User{
			ID:             uuid.New(),
			FullName:       u.name,
			Email:          u.email,
			HashedPassword: string(hash),
			Role:           u.role,
			Theme:          u.theme,
		}); err != nil {
			return fmt.Errorf("seed user %q: %w", u.email, err)
		}
	}

	return nil
}

// DemoRestaurant is the seeded restaurant profile.
func DemoRestaurant() Restaurant {
	return Restaurant{
		ID:     uuid.New(),
		Name:   "Lanchonete do Zé",
		PixKey: "pix@lanchonete.com",
	}
}
