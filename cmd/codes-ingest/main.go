// Command codes-ingest loads vendor-supplied delivery code files into the
// code_stock table. Each file in the data directory is named
// <productID>.codes.gz and contains one code per line, gzip-compressed.
// Files are processed concurrently; a per-process bloom filter drops
// duplicates cheaply before the database sees them.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/sadiqstore/storefront/internal/repository"
)

const (
	fileSuffix    = ".codes.gz"
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	batchSize     = 1000
	minCodeLen    = 8
	maxCodeLen    = 64
)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing <productID>.codes.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("code ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("code ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	matches, err := filepath.Glob(filepath.Join(dataDir, "*"+fileSuffix))
	if err != nil {
		return errors.Wrap(err, "list code files")
	}
	if len(matches) == 0 {
		slog.Info("no code files found", slog.String("dir", dataDir))
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	stock := repository.NewCodeStockRepository(pool)

	// One shared filter across all files: the same code must never be sold
	// for two different products.
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	var seenMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range matches {
		g.Go(ingestFile(ctx, path, stock, seen, &seenMu))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	counts, err := stock.StockByProduct(ctx)
	if err != nil {
		return errors.Wrap(err, "count stock")
	}
	for productID, n := range counts {
		slog.Info("stock level", slog.String("product", productID), slog.Int64("codes", n))
	}

	return nil
}

func ingestFile(
	ctx context.Context,
	path string,
	stock *repository.CodeStockRepository,
	seen *bloom.BloomFilter,
	seenMu *sync.Mutex,
) func() error {
	return func() error {
		productID := strings.TrimSuffix(filepath.Base(path), fileSuffix)
		slog.Info("ingesting codes", slog.String("product", productID), slog.String("file", path))

		var (
			batch    []string
			total    int64
			inserted int64
		)

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := stock.InsertBatch(ctx, productID, batch)
			if err != nil {
				return err
			}
			inserted += n
			batch = batch[:0]
			return nil
		}

		if err := streamGzLines(ctx, path, func(code string) error {
			if len(code) < minCodeLen || len(code) > maxCodeLen {
				return nil
			}

			seenMu.Lock()
			dup := seen.TestString(code)
			if !dup {
				seen.AddString(code)
			}
			seenMu.Unlock()
			if dup {
				// A bloom false positive skips a valid code here, which is
				// acceptable at the configured error rate.
				return nil
			}

			total++
			batch = append(batch, code)
			if len(batch) >= batchSize {
				return flush()
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "ingest %s", path)
		}

		if err := flush(); err != nil {
			return errors.Wrapf(err, "ingest %s", path)
		}

		slog.Info("ingest complete",
			slog.String("product", productID),
			slog.Int64("accepted", total),
			slog.Int64("inserted", inserted),
		)
		return nil
	}
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(code string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
