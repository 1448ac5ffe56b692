package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/menu"
)

const (
	menuColumns = `id, name, description, price, original_price, category_id,
		available, vegetarian, calories, protein_grams`

	listMenuSQL          = `SELECT ` + menuColumns + ` FROM menu_items ORDER BY category_id, name`
	listAvailableMenuSQL = `SELECT ` + menuColumns + ` FROM menu_items WHERE available = TRUE ORDER BY category_id, name`
	getMenuByIDsSQL      = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ANY($1)`

	insertMenuSQL = `INSERT INTO menu_items
		(id, name, description, price, original_price, category_id, available, vegetarian, calories, protein_grams)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateMenuSQL = `UPDATE menu_items SET
		name = $2, description = $3, price = $4, original_price = $5, category_id = $6,
		available = $7, vegetarian = $8, calories = $9, protein_grams = $10
		WHERE id = $1`

	deleteMenuSQL = `DELETE FROM menu_items WHERE id = $1`

	setAvailabilitySQL = `UPDATE menu_items SET available = $2 WHERE id = ANY($1)`

	listCategoriesSQL = `SELECT id, name, sort_order FROM menu_categories ORDER BY sort_order, name`
	insertCategorySQL = `INSERT INTO menu_categories (id, name, sort_order) VALUES ($1, $2, $3)`
	deleteCategorySQL = `DELETE FROM menu_categories WHERE id = $1`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns the catalog, restricted to available items for the
// customer menu when availableOnly is set.
func (r *MenuRepository) List(ctx context.Context, availableOnly bool) ([]menu.Item, error) {
	sql := listMenuSQL
	if availableOnly {
		sql = listAvailableMenuSQL
	}
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByIDs returns menu items matching any of the given IDs.
func (r *MenuRepository) GetByIDs(ctx context.Context, ids []string) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// ListCategories returns the display categories in sort order.
func (r *MenuRepository) ListCategories(ctx context.Context) ([]menu.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (menu.Category, error) {
		var c menu.Category
		err := row.Scan(&c.ID, &c.Name, &c.SortOrder)
		return c, err
	})
}

// CreateCategory inserts a new display category.
func (r *MenuRepository) CreateCategory(ctx context.Context, c *menu.Category) error {
	_, err := r.pool.Exec(ctx, insertCategorySQL, c.ID, c.Name, c.SortOrder)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.ID, err)
	}
	return nil
}

// DeleteCategory removes a category. The foreign key on menu_items
// rejects the delete while items still reference it.
func (r *MenuRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("deleting category %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Create inserts a new menu item.
func (r *MenuRepository) Create(ctx context.Context, it *menu.Item) error {
	_, err := r.pool.Exec(ctx, insertMenuSQL,
		it.ID, it.Name, it.Description, it.Price, it.OriginalPrice, it.CategoryID,
		it.Available, it.Vegetarian, it.Calories, it.ProteinGrams,
	)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", it.ID, err)
	}
	return nil
}

// Update replaces all editable fields of a menu item.
func (r *MenuRepository) Update(ctx context.Context, it *menu.Item) error {
	tag, err := r.pool.Exec(ctx, updateMenuSQL,
		it.ID, it.Name, it.Description, it.Price, it.OriginalPrice, it.CategoryID,
		it.Available, it.Vegetarian, it.Calories, it.ProteinGrams,
	)
	if err != nil {
		return fmt.Errorf("updating menu item %q: %w", it.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Delete removes a menu item.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteMenuSQL, id)
	if err != nil {
		return fmt.Errorf("deleting menu item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// SetAvailability toggles the availability flag for one or many items.
func (r *MenuRepository) SetAvailability(ctx context.Context, ids []string, available bool) error {
	_, err := r.pool.Exec(ctx, setAvailabilitySQL, ids, available)
	if err != nil {
		return fmt.Errorf("setting availability: %w", err)
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var it menu.Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.Price, &it.OriginalPrice,
		&it.CategoryID, &it.Available, &it.Vegetarian, &it.Calories, &it.ProteinGrams,
	)
	return it, err
}
