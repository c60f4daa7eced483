// Command seed-db loads the demo catalog, users, promo codes, and the admin
// API key into PostgreSQL. Re-running it upserts, so it is safe on a
// populated database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sadiqstore/storefront/internal/api"
	"github.com/sadiqstore/storefront/internal/repository"
)

type productJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Featured     bool            `json:"featured"`
	Availability string          `json:"availability"`
	Options      json.RawMessage `json:"options"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		adminKey     string
		pepper       string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminKey, "admin-key", "", "admin API key to seed (or STORE_SEED_ADMIN_KEY env)")
	flag.StringVar(&pepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminKey == "" {
		adminKey = os.Getenv("STORE_SEED_ADMIN_KEY")
	}
	if adminKey == "" {
		slog.Error("admin key is required: set --admin-key or STORE_SEED_ADMIN_KEY")
		os.Exit(1)
	}
	if pepper == "" {
		pepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminKey, pepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminKey, pepper string) error {
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

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedUsers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed users")
	}
	if err := seedPromoCodes(ctx, pool); err != nil {
		return errors.Wrap(err, "seed promo codes")
	}
	if err := seedAdminKey(ctx, pool, adminKey, pepper); err != nil {
		return errors.Wrap(err, "seed admin key")
	}

	return nil
}

const upsertProductSQL = `INSERT INTO products (id, name, image, price, category, featured, availability, options)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, image = EXCLUDED.image, price = EXCLUDED.price,
		category = EXCLUDED.category, featured = EXCLUDED.featured,
		availability = EXCLUDED.availability, options = EXCLUDED.options`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		options := p.Options
		if len(options) == 0 {
			options = json.RawMessage("[]")
		}
		availability := p.Availability
		if availability == "" {
			availability = "in_stock"
		}
		_, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Image, p.Price, p.Category, p.Featured, availability, options,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const upsertUserSQL = `INSERT INTO users (id, name, email, role)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role`

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding demo users")

	users := []struct {
		id, name, email, role string
	}{
		{"demo-user", "Demo Customer", "customer@example.com", "customer"},
		{"demo-admin", "Store Operator", "admin@example.com", "admin"},
	}

	for _, u := range users {
		if _, err := pool.Exec(ctx, upsertUserSQL, u.id, u.name, u.email, u.role); err != nil {
			return errors.Wrapf(err, "upsert user %s", u.id)
		}
		slog.Info("upserted user", slog.String("id", u.id), slog.String("email", u.email))
	}

	return nil
}

const upsertPromoSQL = `INSERT INTO promo_codes (code, discount_type, value, min_items, description, active)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (code) DO UPDATE SET
		discount_type = EXCLUDED.discount_type, value = EXCLUDED.value,
		min_items = EXCLUDED.min_items, description = EXCLUDED.description,
		active = EXCLUDED.active`

func seedPromoCodes(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding promo codes")

	promos := []struct {
		code, kind  string
		value       decimal.Decimal
		minItems    int
		description string
	}{
		{"WELCOME10", "percentage", decimal.NewFromInt(10), 0, "Welcome: 10% off your order"},
		{"GAMER5", "fixed", decimal.NewFromInt(5), 2, "$5 off when buying two or more items"},
	}

	for _, p := range promos {
		if _, err := pool.Exec(ctx, upsertPromoSQL,
			p.code, p.kind, p.value, p.minItems, p.description, true,
		); err != nil {
			return errors.Wrapf(err, "upsert promo %s", p.code)
		}
		slog.Info("upserted promo code", slog.String("code", p.code), slog.String("description", p.description))
	}

	return nil
}

const upsertAPIKeySQL = `INSERT INTO api_keys (id, key_hash, name, scopes, active)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		key_hash = EXCLUDED.key_hash, name = EXCLUDED.name,
		scopes = EXCLUDED.scopes, active = EXCLUDED.active`

func seedAdminKey(ctx context.Context, pool *pgxpool.Pool, adminKey, pepper string) error {
	slog.Info("seeding admin API key")

	keyHash := api.HashAPIKey(adminKey, []byte(pepper))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL,
		"admin", keyHash, "Back-office admin key", []string{"admin"}, true,
	); err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("id", "admin"))

	return nil
}
