// Package dbtool holds the maintenance queries behind cmd/dbtool.
package dbtool

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrUnknownTable = errors.New("unknown table")

// テーブル名はこの一覧からしか受けない（SQLに直接入れるため）
var KnownTables = []string{"users", "products", "orders", "order_items", "ai_logs"}

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

func checkTable(table string) error {
	for _, t := range KnownTables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (known: %s)", ErrUnknownTable, table, strings.Join(KnownTables, ", "))
}

// TableInfo is one line of the tables listing.
type TableInfo struct {
	Name   string
	Exists bool
	Rows   int64
}

func Tables(ctx context.Context, gdb *gorm.DB) ([]TableInfo, error) {
	out := make([]TableInfo, 0, len(KnownTables))
	for _, t := range KnownTables {
		info := TableInfo{Name: t}
		if gdb.Migrator().HasTable(t) {
			info.Exists = true
			n, err := Count(ctx, gdb, t)
			if err != nil {
				return nil, err
			}
			info.Rows = n
		}
		out = append(out, info)
	}
	return out, nil
}

func Count(ctx context.Context, gdb *gorm.DB, table string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	var n int64
	if err := gdb.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Result keeps the column order of the query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Tail returns the last n rows by id, newest first.
func Tail(ctx context.Context, gdb *gorm.DB, table string, n int) (Result, error) {
	if err := checkTable(table); err != nil {
		return Result{}, err
	}
	if n <= 0 {
		n = 10
	}
	return query(gdb.WithContext(ctx).Table(table).Order("id DESC").Limit(n))
}

// Export writes every row of table ordered by id.
func Export(ctx context.Context, gdb *gorm.DB, table, format string, w io.Writer) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if format != FormatCSV && format != FormatJSON {
		return 0, fmt.Errorf("unsupported format %q (csv|json)", format)
	}

	res, err := query(gdb.WithContext(ctx).Table(table).Order("id"))
	if err != nil {
		return 0, err
	}

	if format == FormatCSV {
		return len(res.Rows), writeCSV(w, res)
	}
	return len(res.Rows), writeJSON(w, res)
}

func query(q *gorm.DB) (Result, error) {
	rows, err := q.Rows()
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	res := Result{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		for i, v := range vals {
			vals[i] = normalize(v)
		}
		res.Rows = append(res.Rows, vals)
	}
	return res, rows.Err()
}

// ドライバ差（[]byte/time.Time）をならす
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return t
	}
}

// Cell renders a value for text output; NULL becomes an empty string.
func Cell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func writeCSV(w io.Writer, res Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	for _, row := range res.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = Cell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, res Result) error {
	out := make([]map[string]any, 0, len(res.Rows))
	for _, row := range res.Rows {
		m := make(map[string]any, len(row))
		for i, c := range res.Columns {
			m[c] = row[i]
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
