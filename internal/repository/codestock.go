package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertCodeStockSQL = `INSERT INTO code_stock (product_id, code)
		VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`

	codeStockCountsSQL = `SELECT product_id, COUNT(*) FILTER (WHERE NOT reserved)
		FROM code_stock GROUP BY product_id ORDER BY product_id`
)

// CodeStockRepository manages the pool of vendor-supplied delivery codes
// loaded by the ingest tool.
type CodeStockRepository struct {
	pool *pgxpool.Pool
}

// NewCodeStockRepository returns a CodeStockRepository that uses the given
// pool.
func NewCodeStockRepository(pool *pgxpool.Pool) *CodeStockRepository {
	return &CodeStockRepository{pool: pool}
}

// InsertBatch stores a batch of codes for a product. Duplicate codes are
// silently skipped, so re-running an ingest is safe. It returns the number of
// rows actually inserted.
func (r *CodeStockRepository) InsertBatch(ctx context.Context, productID string, codes []string) (int64, error) {
	batch := &pgx.Batch{}
	for _, code := range codes {
		batch.Queue(insertCodeStockSQL, productID, code)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck // surfaced via Exec errors below

	var inserted int64
	for range codes {
		tag, err := results.Exec()
		if err != nil {
			return inserted, errors.Wrapf(err, "insert code batch for product %q", productID)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// StockByProduct returns the number of unreserved codes per product.
func (r *CodeStockRepository) StockByProduct(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, codeStockCountsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "count code stock")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			productID string
			n         int64
		)
		if err := rows.Scan(&productID, &n); err != nil {
			return nil, errors.Wrap(err, "scan code stock row")
		}
		counts[productID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "count code stock")
	}
	return counts, nil
}
