// Package ingest bulk-loads the catalog tables from CSV exports.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/db"
)

const batchSize = 1000

// Source maps a CSV file to the catalog table it fills.
type Source struct {
	File  string
	Table string
}

// DefaultSources lists the catalog files in dependency order.
var DefaultSources = []Source{
	{File: "distribution_centers.csv", Table: "distribution_centers"},
	{File: "users.csv", Table: "users"},
	{File: "products.csv", Table: "products"},
	{File: "inventory_items.csv", Table: "inventory_items"},
	{File: "orders.csv", Table: "orders"},
	{File: "order_items.csv", Table: "order_items"},
}

// Store is the write side of the catalog.
type Store interface {
	ClearTable(ctx context.Context, table string) error
	InsertCatalogRows(ctx context.Context, table string, rows [][]any, onRowError func(i int, err error)) (int, error)
}

type Loader struct {
	store         Store
	dir           string
	clearExisting bool
	logger        *zap.Logger
}

func NewLoader(store Store, dir string, clearExisting bool, logger *zap.Logger) *Loader {
	return &Loader{store: store, dir: dir, clearExisting: clearExisting, logger: logger}
}

// LoadAll loads every source in order. A missing file is logged and skipped;
// any other failure stops the run.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) (map[string]int, error) {
	counts := make(map[string]int, len(sources))
	for _, src := range sources {
		n, err := l.Load(ctx, src)
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("catalog file not found, skipping",
				zap.String("file", filepath.Join(l.dir, src.File)))
			continue
		}
		if err != nil {
			return counts, fmt.Errorf("load %s: %w", src.File, err)
		}
		counts[src.Table] = n
		l.logger.Info("loaded catalog table",
			zap.String("table", src.Table),
			zap.String("file", src.File),
			zap.Int("rows", n))
	}
	return counts, nil
}

// Load reads one CSV file into its table, committing every batchSize rows.
// Columns are matched by header name; absent columns and empty cells are NULL.
func (l *Loader) Load(ctx context.Context, src Source) (int, error) {
	columns, ok := db.CatalogColumns[src.Table]
	if !ok {
		return 0, fmt.Errorf("unknown catalog table %q", src.Table)
	}

	f, err := os.Open(filepath.Join(l.dir, src.File))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	if l.clearExisting {
		if err := l.store.ClearTable(ctx, src.Table); err != nil {
			return 0, fmt.Errorf("clear %s: %w", src.Table, err)
		}
	}

	total, line := 0, 1
	batch := make([][]any, 0, batchSize)
	lines := make([]int, 0, batchSize)
	flush := func() error {
		n, err := l.store.InsertCatalogRows(ctx, src.Table, batch, func(i int, err error) {
			l.logger.Warn("skipping catalog row",
				zap.String("table", src.Table),
				zap.Int("line", lines[i]),
				zap.Error(err))
		})
		if err != nil {
			return err
		}
		total += n
		batch, lines = batch[:0], lines[:0]
		return nil
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.Warn("skipping malformed csv line",
				zap.String("file", src.File),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}

		batch = append(batch, rowValues(columns, index, record))
		lines = append(lines, line)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
			l.logger.Debug("catalog rows committed", zap.String("table", src.Table), zap.Int("rows", total))
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

func rowValues(columns []string, index map[string]int, record []string) []any {
	values := make([]any, len(columns))
	for i, col := range columns {
		pos, ok := index[col]
		if !ok || pos >= len(record) || record[pos] == "" {
			values[i] = nil
			continue
		}
		values[i] = record[pos]
	}
	return values
}
