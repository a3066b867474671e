package db

import (
	"fmt"
	"strings"
)

// ConditionItem is a single "column operator ?" restriction of a WHERE clause.
type ConditionItem struct {
	Column   string
	Operator string
	Value    interface{}
}

type SelectInfo struct {
	Keyspace       string
	Table          string
	Columns        []string
	Where          []ConditionItem
	AllowFiltering bool
	Limit          int
}

func (db *Db) Select(info *SelectInfo, options *QueryOptions) (ResultSet, error) {
	query, values := buildSelect(info)
	if options == nil {
		options = db.options()
	}
	return db.session.ExecuteIter(query, options, values...)
}

func buildSelect(info *SelectInfo) (string, []interface{}) {
	columns := "*"
	if len(info.Columns) > 0 {
		quoted := make([]string, len(info.Columns))
		for i, column := range info.Columns {
			quoted[i] = quoteIdentifier(column)
		}
		columns = strings.Join(quoted, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s.%s", columns, quoteIdentifier(info.Keyspace), quoteIdentifier(info.Table))

	values := make([]interface{}, 0, len(info.Where)+1)
	if len(info.Where) > 0 {
		query += " WHERE " + buildCondition(info.Where, &values)
	}

	if info.Limit > 0 {
		query += " LIMIT ?"
		values = append(values, info.Limit)
	}

	if info.AllowFiltering {
		query += " ALLOW FILTERING"
	}

	return query, values
}

func buildCondition(condition []ConditionItem, queryParameters *[]interface{}) string {
	conditionClause := ""
	for _, item := range condition {
		if conditionClause != "" {
			conditionClause += " AND "
		}

		conditionClause += fmt.Sprintf("%s %s ?", quoteIdentifier(item.Column), item.Operator)
		*queryParameters = append(*queryParameters, item.Value)
	}
	return conditionClause
}

// quoteIdentifier quotes names that would otherwise be case folded or clash with keywords.
func quoteIdentifier(name string) string {
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
		}
	}
	return name
}
