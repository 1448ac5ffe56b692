// Command seed-db loads the demo menu, sample coupons, and the admin
// API key into the database. Safe to re-run: every write is an upsert.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tiffinlabs/tiffin-pos/internal/repository"
)

type menuSeed struct {
	Categories []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		SortOrder int    `json:"sort_order"`
	} `json:"categories"`
	Items []struct {
		ID            string           `json:"id"`
		Name          string           `json:"name"`
		Description   string           `json:"description"`
		Price         decimal.Decimal  `json:"price"`
		OriginalPrice *decimal.Decimal `json:"original_price"`
		CategoryID    string           `json:"category_id"`
		Vegetarian    bool             `json:"vegetarian"`
		Calories      *int             `json:"calories"`
		ProteinGrams  *int             `json:"protein_grams"`
	} `json:"items"`
}

func main() {
	var (
		databaseURL  string
		menuFile     string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or TIFFIN_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or TIFFIN_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("TIFFIN_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or TIFFIN_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("TIFFIN_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}
	return nil
}

const (
	upsertCategorySQL = `INSERT INTO menu_categories (id, name, sort_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order`

	upsertItemSQL = `INSERT INTO menu_items
		(id, name, description, price, original_price, category_id, vegetarian, calories, protein_grams)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
			original_price = EXCLUDED.original_price, category_id = EXCLUDED.category_id,
			vegetarian = EXCLUDED.vegetarian, calories = EXCLUDED.calories,
			protein_grams = EXCLUDED.protein_grams`

	upsertCouponSQL = `INSERT INTO coupons
		(id, code, name, description, discount_type, value, min_order, max_discount, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			discount_type = EXCLUDED.discount_type, value = EXCLUDED.value,
			min_order = EXCLUDED.min_order, max_discount = EXCLUDED.max_discount,
			active = TRUE`

	upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, scopes, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			key_hash = EXCLUDED.key_hash, name = EXCLUDED.name,
			scopes = EXCLUDED.scopes, active = TRUE`
)

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	data, err := os.ReadFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}
	var seed menuSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting categories", slog.Int("count", len(seed.Categories)))
	for _, c := range seed.Categories {
		if _, err := pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name, c.SortOrder); err != nil {
			return errors.Wrapf(err, "upsert category %s", c.ID)
		}
	}

	slog.Info("upserting menu items", slog.Int("count", len(seed.Items)))
	for _, it := range seed.Items {
		if _, err := pool.Exec(ctx, upsertItemSQL,
			it.ID, it.Name, it.Description, it.Price, it.OriginalPrice,
			it.CategoryID, it.Vegetarian, it.Calories, it.ProteinGrams,
		); err != nil {
			return errors.Wrapf(err, "upsert menu item %s", it.ID)
		}
		slog.Info("upserted menu item", slog.String("id", it.ID), slog.String("name", it.Name))
	}
	return nil
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding sample coupons")

	coupons := []struct {
		id, code, name, description, discountType string
		value, minOrder, maxDiscount              decimal.Decimal
	}{
		{
			id: "welcome10", code: "WELCOME10", name: "Welcome 10%",
			description:  "10% off your first order, up to 50",
			discountType: "percentage",
			value:        decimal.NewFromInt(10),
			minOrder:     decimal.NewFromInt(200),
			maxDiscount:  decimal.NewFromInt(50),
		},
		{
			id: "save40", code: "SAVE40", name: "Flat 40 off",
			description:  "Flat 40 off on orders above 300",
			discountType: "fixed",
			value:        decimal.NewFromInt(40),
			minOrder:     decimal.NewFromInt(300),
			maxDiscount:  decimal.Zero,
		},
	}

	for _, c := range coupons {
		if _, err := pool.Exec(ctx, upsertCouponSQL,
			c.id, c.code, c.name, c.description, c.discountType,
			c.value, c.minOrder, c.maxDiscount,
		); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}
		slog.Info("upserted coupon", slog.String("code", c.code))
	}
	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding admin API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL,
		"admin", keyHash, "Admin dashboard key", []string{"admin"},
	); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("id", "admin"))
	return nil
}
