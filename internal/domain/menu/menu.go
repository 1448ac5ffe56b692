// Package menu defines the catalog types and repository contract.
package menu

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item is a catalog entry. Price is GST-inclusive as displayed to
// customers; OriginalPrice, when set, is shown struck through.
type Item struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	CategoryID    string           `json:"category_id"`
	Available     bool             `json:"available"`
	Vegetarian    bool             `json:"vegetarian"`
	Calories      *int             `json:"calories,omitempty"`
	ProteinGrams  *int             `json:"protein_grams,omitempty"`
}

// Category groups menu items for display.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Repository defines catalog persistence. List* reads serve the customer
// menu; the mutation methods serve the admin dashboard.
type Repository interface {
	List(ctx context.Context, availableOnly bool) ([]Item, error)
	GetByIDs(ctx context.Context, ids []string) ([]Item, error)
	ListCategories(ctx context.Context) ([]Category, error)

	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, ids []string, available bool) error

	CreateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
}
