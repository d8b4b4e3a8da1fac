package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool used to read catalogs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Relations names the PostgreSQL tables or views holding the catalogs.
// OrderColumn, when set, orders rows and is not part of the column contract.
type Relations struct {
	Schema      string
	Tables      string
	Fields      string
	Predicates  string
	OrderColumn string
}

// ReadPostgres loads all three catalogs from PostgreSQL relations. The
// relation's column list is checked against the same contract as files.
func ReadPostgres(ctx context.Context, q Querier, rel Relations) (*Catalog, error) {
	tables, err := queryRelation(ctx, q, rel, KindTables, rel.Tables)
	if err != nil {
		return nil, fmt.Errorf("querying table catalog: %w", err)
	}
	fields, err := queryRelation(ctx, q, rel, KindFields, rel.Fields)
	if err != nil {
		return nil, fmt.Errorf("querying field catalog: %w", err)
	}
	predicates, err := queryRelation(ctx, q, rel, KindPredicates, rel.Predicates)
	if err != nil {
		return nil, fmt.Errorf("querying predicate catalog: %w", err)
	}
	return Build(tables, fields, predicates)
}

// queryRelation reads one relation. The column list is checked before any row
// is fetched.
func queryRelation(ctx context.Context, q Querier, rel Relations, k Kind, name string) ([][]string, error) {
	ident := pgx.Identifier{name}
	if rel.Schema != "" {
		ident = pgx.Identifier{rel.Schema, name}
	}
	query := "SELECT * FROM " + ident.Sanitize()
	if rel.OrderColumn != "" {
		query += " ORDER BY " + pgx.Identifier{rel.OrderColumn}.Sanitize()
	}

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skip := -1
	var header []string
	for i, fd := range rows.FieldDescriptions() {
		if rel.OrderColumn != "" && fd.Name == rel.OrderColumn {
			skip = i
			continue
		}
		header = append(header, fd.Name)
	}
	if err := CheckHeader(k, header); err != nil {
		return nil, err
	}
	records := [][]string{header}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make([]string, 0, len(values))
		for i, v := range values {
			if i == skip {
				continue
			}
			rec = append(rec, cellString(v))
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
