package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"shopgraph/internal/graph"
	"shopgraph/pkg/errors"
)

// CSV parsing for the seed files. Files carry a header row; columns are
// addressed by name, not position. Numeric fields fail loud: one unparsable
// price or stock aborts the whole file with no rows returned.

// table is a header-indexed view over one parsed CSV file
type table struct {
	file    string
	columns map[string]int
	rows    [][]string
}

func readTable(name string, reader io.Reader) (*table, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, errors.NewRowParseFailed(name, 0, "csv", err)
	}
	if len(records) == 0 {
		return nil, errors.NewMissingColumn(name, "header")
	}

	columns := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		columns[col] = i
	}

	return &table{file: name, columns: columns, rows: records[1:]}, nil
}

func (t *table) get(row []string, column string) (string, error) {
	idx, ok := t.columns[column]
	if !ok {
		return "", errors.NewMissingColumn(t.file, column)
	}
	if idx >= len(row) {
		return "", nil
	}
	return row[idx], nil
}

// ParseUsers reads the users file into typed records
func ParseUsers(name string, reader io.Reader) ([]graph.UserRecord, error) {
	t, err := readTable(name, reader)
	if err != nil {
		return nil, err
	}

	users := make([]graph.UserRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := graph.UserRecord{}
		fields := []struct {
			column string
			dest   *string
		}{
			{"user_id", &rec.Key},
			{"username", &rec.Username},
			{"email", &rec.Email},
			{"phone", &rec.Phone},
			{"birthdate", &rec.Birthdate},
			{"created_at", &rec.CreatedAt},
		}
		for _, f := range fields {
			value, err := t.get(row, f.column)
			if err != nil {
				return nil, err
			}
			*f.dest = value
		}
		users = append(users, rec)
	}
	return users, nil
}

// ParseProducts reads the products file, converting price and stock. Any
// unparsable numeric value fails the batch before a mutation is attempted.
func ParseProducts(name string, reader io.Reader) ([]graph.ProductRecord, error) {
	t, err := readTable(name, reader)
	if err != nil {
		return nil, err
	}

	products := make([]graph.ProductRecord, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2 // header is line 1

		rec := graph.ProductRecord{}
		if rec.Key, err = t.get(row, "product_id"); err != nil {
			return nil, err
		}
		if rec.Name, err = t.get(row, "name"); err != nil {
			return nil, err
		}
		if rec.Description, err = t.get(row, "description"); err != nil {
			return nil, err
		}

		priceRaw, err := t.get(row, "price")
		if err != nil {
			return nil, err
		}
		if rec.Price, err = strconv.ParseFloat(priceRaw, 64); err != nil {
			return nil, errors.NewRowParseFailed(name, line, "price", fmt.Errorf("%q: %w", priceRaw, err))
		}

		stockRaw, err := t.get(row, "stock")
		if err != nil {
			return nil, err
		}
		if rec.Stock, err = strconv.ParseInt(stockRaw, 10, 64); err != nil {
			return nil, errors.NewRowParseFailed(name, line, "stock", fmt.Errorf("%q: %w", stockRaw, err))
		}

		products = append(products, rec)
	}
	return products, nil
}

// ParseCategories reads the categories file; the name doubles as the key
func ParseCategories(name string, reader io.Reader) ([]graph.CategoryRecord, error) {
	t, err := readTable(name, reader)
	if err != nil {
		return nil, err
	}

	categories := make([]graph.CategoryRecord, 0, len(t.rows))
	for _, row := range t.rows {
		value, err := t.get(row, "category")
		if err != nil {
			return nil, err
		}
		categories = append(categories, graph.CategoryRecord{Name: value})
	}
	return categories, nil
}

// ParseReturns reads the returns file into typed records
func ParseReturns(name string, reader io.Reader) ([]graph.ReturnRecord, error) {
	t, err := readTable(name, reader)
	if err != nil {
		return nil, err
	}

	returns := make([]graph.ReturnRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := graph.ReturnRecord{}
		if rec.Key, err = t.get(row, "return_id"); err != nil {
			return nil, err
		}
		if rec.Reason, err = t.get(row, "reason"); err != nil {
			return nil, err
		}
		returns = append(returns, rec)
	}
	return returns, nil
}

// ParsePairs reads a two-column relationship file into key pairs
func ParsePairs(name string, reader io.Reader, sourceColumn, targetColumn string) ([]graph.Pair, error) {
	t, err := readTable(name, reader)
	if err != nil {
		return nil, err
	}

	pairs := make([]graph.Pair, 0, len(t.rows))
	for _, row := range t.rows {
		source, err := t.get(row, sourceColumn)
		if err != nil {
			return nil, err
		}
		target, err := t.get(row, targetColumn)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, graph.Pair{SourceKey: source, TargetKey: target})
	}
	return pairs, nil
}
