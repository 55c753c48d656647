package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertCatalogCourse = `INSERT INTO catalog_courses (code, title, units, description, level, source_url, scraped_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) ON CONFLICT (code) DO UPDATE SET title=EXCLUDED.title, units=EXCLUDED.units, description=EXCLUDED.description, level=EXCLUDED.level, source_url=EXCLUDED.source_url, scraped_at=EXCLUDED.scraped_at, updated_at=EXCLUDED.updated_at, deleted_at=NULL`

const listCatalogCodes = `SELECT code FROM catalog_courses WHERE deleted_at IS NULL ORDER BY code`

// CatalogRecord is a scraped course ready to be written.
type CatalogRecord struct {
	Code        string
	Title       string
	Units       int
	Description string
	Level       string
	SourceURL   string
}

// CatalogWriter bulk-writes catalog courses over a pgx pool. It is used by
// the ingest tool where batching thousands of rows through gorm is too slow.
type CatalogWriter struct {
	Pool *pgxpool.Pool
}

// NewCatalogWriter opens a pool for connString.
func NewCatalogWriter(ctx context.Context, connString string) (*CatalogWriter, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &CatalogWriter{Pool: pool}, nil
}

func (w *CatalogWriter) Close() {
	w.Pool.Close()
}

func execCallback(pgconn.CommandTag) error {
	return nil
}

// UpsertCourses inserts records or updates existing ones by code in a single
// batch.
func (w *CatalogWriter) UpsertCourses(ctx context.Context, records []CatalogRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	batch := pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertCatalogCourse, r.Code, r.Title, r.Units, r.Description, r.Level, r.SourceURL, now, now).Exec(execCallback)
	}

	return w.Pool.SendBatch(ctx, &batch).Close()
}

// ListCodes returns every live catalog code in order.
func (w *CatalogWriter) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := w.Pool.Query(ctx, listCatalogCodes)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
