package sqlstore

import (
	"fmt"
	"strings"

	"github.com/datastax/data-api-filters/types"
	"github.com/lib/pq"
	"github.com/spf13/cast"
)

const (
	baseAlias     = "t0"
	aliasSep      = "__"
	likeEscape    = `\`
	likeWildcards = `%_`
)

type join struct {
	alias      string
	table      string
	on         string
	references string
	parent     string
}

// translator turns predicate sets into a SELECT over a table and the joins their paths need.
type translator struct {
	schema  Schema
	table   Table
	joins   []join
	aliases map[string]bool
}

func newTranslator(schema Schema, table Table) *translator {
	return &translator{schema: schema, table: table, aliases: map[string]bool{}}
}

// clause is a conjunction of predicates, negated for excludes. A negated clause keeps the rows its
// conjunction evaluates to NULL on, so excluding rating = 1 keeps rows without a rating.
type clause struct {
	predicates types.PredicateSet
	negate     bool
}

func (t *translator) toSelect(clauses []clause) (string, []interface{}, error) {
	var (
		conditions []string
		values     []interface{}
	)

	for _, c := range clauses {
		expression, vals, err := t.buildExpressionFromPredicates(c.predicates)
		if err != nil {
			return "", nil, err
		}
		if expression == "" {
			continue
		}
		if c.negate {
			expression = "NOT COALESCE(" + expression + ", FALSE)"
		}
		conditions = append(conditions, expression)
		values = append(values, vals...)
	}

	distinct := ""
	if len(t.joins) > 0 {
		distinct = "DISTINCT "
	}

	query := fmt.Sprintf("SELECT %s%s.* FROM %s AS %s", distinct, baseAlias, pq.QuoteIdentifier(t.table.Name), baseAlias)
	for _, j := range t.joins {
		query += fmt.Sprintf(" LEFT JOIN %s AS %s ON %s.%s = %s.%s",
			pq.QuoteIdentifier(j.table), pq.QuoteIdentifier(j.alias),
			pq.QuoteIdentifier(j.alias), pq.QuoteIdentifier(j.references),
			quoteAlias(j.parent), pq.QuoteIdentifier(j.on))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s.%s", baseAlias, pq.QuoteIdentifier(t.table.primaryKey()))

	return query, values, nil
}

func (t *translator) buildExpressionFromPredicates(predicates types.PredicateSet) (string, []interface{}, error) {
	expression := ""
	var vals []interface{}
	for _, p := range predicates.Sorted() {
		column, err := t.resolve(p.Path)
		if err != nil {
			return "", nil, types.NewInvalidValueError(p.Key(aliasSep), p.Value, err)
		}

		condition, conditionVals, err := buildCondition(column, p.Lookup, p.Value)
		if err != nil {
			return "", nil, types.NewInvalidValueError(p.Key(aliasSep), p.Value, err)
		}

		if expression != "" {
			expression += " AND "
		}
		expression += condition
		vals = append(vals, conditionVals...)
	}
	return expression, vals, nil
}

// resolve returns the qualified column a path points to, adding the joins needed to reach it. A path
// ending on a relation points to the local column of that relation.
func (t *translator) resolve(path []string) (string, error) {
	current := t.table
	alias := baseAlias

	for i, segment := range path {
		last := i == len(path)-1
		if last && current.HasColumn(segment) {
			return quoteAlias(alias) + "." + pq.QuoteIdentifier(segment), nil
		}

		relation, ok := current.Relations[segment]
		if !ok {
			return "", fmt.Errorf("%s is neither a column nor a relation of %s", segment, current.Name)
		}
		if last {
			return quoteAlias(alias) + "." + pq.QuoteIdentifier(relation.Column), nil
		}

		target := t.schema[relation.Table]
		joinAlias := strings.Join(path[:i+1], aliasSep)
		if !t.aliases[joinAlias] {
			t.aliases[joinAlias] = true
			t.joins = append(t.joins, join{
				alias:      joinAlias,
				table:      target.Name,
				on:         relation.Column,
				references: relation.references(target),
				parent:     alias,
			})
		}
		current = target
		alias = joinAlias
	}
	return "", fmt.Errorf("empty path")
}

func quoteAlias(alias string) string {
	if alias == baseAlias {
		return alias
	}
	return pq.QuoteIdentifier(alias)
}

func buildCondition(column, lookup string, value interface{}) (string, []interface{}, error) {
	if value == nil {
		switch lookup {
		case types.LookupExact, types.LookupIExact:
			return column + " IS NULL", nil, nil
		}
		return "", nil, fmt.Errorf("null value for lookup %s", lookup)
	}

	switch lookup {
	case types.LookupExact:
		return column + " = ?", []interface{}{value}, nil
	case types.LookupIExact:
		return "UPPER(" + column + "::text) = UPPER(?)", []interface{}{value}, nil
	case types.LookupGt:
		return column + " > ?", []interface{}{value}, nil
	case types.LookupGte:
		return column + " >= ?", []interface{}{value}, nil
	case types.LookupLt:
		return column + " < ?", []interface{}{value}, nil
	case types.LookupLte:
		return column + " <= ?", []interface{}{value}, nil
	case types.LookupContains, types.LookupIContains, types.LookupStartsWith, types.LookupIStartsWith,
		types.LookupEndsWith, types.LookupIEndsWith:
		return likeCondition(column, lookup, value)
	case types.LookupIn:
		list := toList(value)
		if len(list) == 0 {
			return "FALSE", nil, nil
		}
		return column + " IN (?)", []interface{}{list}, nil
	case types.LookupRange:
		bounds := toList(value)
		if len(bounds) != 2 {
			return "", nil, fmt.Errorf("range needs exactly two bounds, got %d", len(bounds))
		}
		return column + " BETWEEN ? AND ?", bounds, nil
	case types.LookupYear, types.LookupMonth, types.LookupDay, types.LookupWeekDay:
		part, err := cast.ToIntE(value)
		if err != nil {
			return "", nil, err
		}
		return datePartExpression(column, lookup) + " = ?", []interface{}{part}, nil
	case types.LookupIsNull:
		isNull, err := cast.ToBoolE(value)
		if err != nil {
			return "", nil, err
		}
		if isNull {
			return column + " IS NULL", nil, nil
		}
		return column + " IS NOT NULL", nil, nil
	case types.LookupRegex:
		return column + "::text ~ ?", []interface{}{value}, nil
	case types.LookupIRegex:
		return column + "::text ~* ?", []interface{}{value}, nil
	}
	return "", nil, fmt.Errorf("lookup %s is not supported", lookup)
}

func likeCondition(column, lookup string, value interface{}) (string, []interface{}, error) {
	text, err := cast.ToStringE(value)
	if err != nil {
		return "", nil, err
	}
	text = escapeLike(text)

	operator := "LIKE"
	switch lookup {
	case types.LookupIContains, types.LookupIStartsWith, types.LookupIEndsWith:
		operator = "ILIKE"
	}

	switch lookup {
	case types.LookupContains, types.LookupIContains:
		text = "%" + text + "%"
	case types.LookupStartsWith, types.LookupIStartsWith:
		text = text + "%"
	default:
		text = "%" + text
	}
	return column + "::text " + operator + " ?", []interface{}{text}, nil
}

func escapeLike(text string) string {
	text = strings.Replace(text, likeEscape, likeEscape+likeEscape, -1)
	for _, wildcard := range likeWildcards {
		text = strings.Replace(text, string(wildcard), likeEscape+string(wildcard), -1)
	}
	return text
}

func datePartExpression(column, lookup string) string {
	switch lookup {
	case types.LookupYear:
		return "EXTRACT(YEAR FROM " + column + ")"
	case types.LookupMonth:
		return "EXTRACT(MONTH FROM " + column + ")"
	case types.LookupDay:
		return "EXTRACT(DAY FROM " + column + ")"
	}
	// Sunday is 1, Saturday is 7
	return "(EXTRACT(DOW FROM " + column + ") + 1)"
}

func toList(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []string:
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = item
		}
		return list
	}
	return []interface{}{value}
}
