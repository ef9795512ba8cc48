package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/RichardoC/shopchat/internal/models"
)

func (db *Database) ProductCategories(ctx context.Context, limit int) ([]string, error) {
	return db.distinctStrings(ctx, `
        SELECT DISTINCT category FROM products
        WHERE category IS NOT NULL
        ORDER BY category
        LIMIT ?`, limit)
}

func (db *Database) ProductBrands(ctx context.Context, limit int) ([]string, error) {
	return db.distinctStrings(ctx, `
        SELECT DISTINCT brand FROM products
        WHERE brand IS NOT NULL
        ORDER BY brand
        LIMIT ?`, limit)
}

func (db *Database) distinctStrings(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := db.db.QueryContext(ctx, db.rebind(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0, limit)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (db *Database) SampleProducts(ctx context.Context, limit int) ([]models.Product, error) {
	rows, err := db.db.QueryContext(ctx, db.rebind(`
        SELECT name, brand, category, retail_price
        FROM products
        ORDER BY id
        LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]models.Product, 0, limit)
	for rows.Next() {
		var name, brand, category sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&name, &brand, &category, &price); err != nil {
			return nil, err
		}
		products = append(products, models.Product{
			Name:     name.String,
			Brand:    brand.String,
			Category: category.String,
			Price:    price.Float64,
		})
	}
	return products, rows.Err()
}

func (db *Database) OrderStats(ctx context.Context) (models.OrderStats, error) {
	var stats models.OrderStats
	err := db.db.QueryRowContext(ctx, `
        SELECT COUNT(*), COUNT(CASE WHEN status = 'delivered' THEN 1 END)
        FROM orders`).Scan(&stats.Total, &stats.Delivered)
	return stats, err
}

func (db *Database) CustomerCount(ctx context.Context) (int64, error) {
	var n int64
	err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// TotalRevenue sums order_items.sale_price. ok is false when the sum is NULL,
// which is the case for an empty table.
func (db *Database) TotalRevenue(ctx context.Context) (total float64, ok bool, err error) {
	var sum sql.NullFloat64
	if err := db.db.QueryRowContext(ctx, `SELECT SUM(sale_price) FROM order_items`).Scan(&sum); err != nil {
		return 0, false, err
	}
	return sum.Float64, sum.Valid, nil
}

// ClearTable deletes every row of a catalog table.
func (db *Database) ClearTable(ctx context.Context, table string) error {
	if _, ok := CatalogColumns[table]; !ok {
		return fmt.Errorf("unknown catalog table %q", table)
	}
	_, err := db.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}

// InsertCatalogRows writes rows into a catalog table in one transaction. Each
// row must have one value per entry of CatalogColumns[table]. Rows rejected by
// the database are reported through onRowError and skipped.
func (db *Database) InsertCatalogRows(ctx context.Context, table string, rows [][]any, onRowError func(i int, err error)) (int, error) {
	columns, ok := CatalogColumns[table]
	if !ok {
		return 0, fmt.Errorf("unknown catalog table %q", table)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := db.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders))

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for i, row := range rows {
		if len(row) != len(columns) {
			if onRowError != nil {
				onRowError(i, fmt.Errorf("expected %d values, got %d", len(columns), len(row)))
			}
			continue
		}
		if db.dialect == dialectPostgres {
			// A failed statement aborts the whole postgres transaction.
			if _, err := tx.ExecContext(ctx, "SAVEPOINT catalog_row"); err != nil {
				return inserted, err
			}
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			if db.dialect == dialectPostgres {
				if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT catalog_row"); rbErr != nil {
					return inserted, rbErr
				}
			}
			if onRowError != nil {
				onRowError(i, err)
			}
			continue
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
