package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sync"

	"github.com/datastax/data-api-filters/types"
)

// Backend holds named tables of rows.
type Backend struct {
	mu     sync.RWMutex
	tables map[string][]types.Row
}

func NewBackend(tables map[string][]types.Row) *Backend {
	if tables == nil {
		tables = map[string][]types.Row{}
	}
	return &Backend{tables: tables}
}

// LoadFile reads a JSON document mapping table names to arrays of rows. Nested objects and arrays of
// objects become to-one and to-many relations.
func LoadFile(path string) (*Backend, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read data file: %w", err)
	}
	return Load(data)
}

func Load(data []byte) (*Backend, error) {
	var document map[string][]map[string]interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("unable to parse data file: %w", err)
	}

	tables := make(map[string][]types.Row, len(document))
	for name, rows := range document {
		table := make([]types.Row, len(rows))
		for i, row := range rows {
			value, err := normalize(row)
			if err != nil {
				return nil, fmt.Errorf("invalid row %d of table %s: %w", i, name, err)
			}
			table[i] = value.(types.Row)
		}
		tables[name] = table
	}
	return NewBackend(tables), nil
}

// Put replaces the rows of a table.
func (b *Backend) Put(table string, rows []types.Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[table] = rows
}

func (b *Backend) Queryset(ctx context.Context, table string) (types.Queryset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rows, ok := b.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return New(rows), nil
}

// normalize turns decoded JSON objects into rows, arrays of objects into to-many relations, integral
// numbers into int64 and RFC 3339 timestamps or plain dates into time.Time.
func normalize(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		row := make(types.Row, len(v))
		for key, item := range v {
			normalized, err := normalize(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			row[key] = normalized
		}
		return row, nil
	case []interface{}:
		if len(v) > 0 {
			if _, ok := v[0].(map[string]interface{}); ok {
				return normalizeRelation(v)
			}
		}
		items := make([]interface{}, len(v))
		for i, item := range v {
			normalized, err := normalize(item)
			if err != nil {
				return nil, err
			}
			items[i] = normalized
		}
		return items, nil
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		if t, err := types.StringToTime(v); err == nil {
			return t, nil
		}
	}
	return value, nil
}

func normalizeRelation(items []interface{}) ([]types.Row, error) {
	related := make([]types.Row, len(items))
	for i, item := range items {
		object, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("element %d of a relation is not an object", i)
		}
		row, err := normalize(object)
		if err != nil {
			return nil, err
		}
		related[i] = row.(types.Row)
	}
	return related, nil
}
