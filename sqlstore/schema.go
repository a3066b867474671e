// Package sqlstore serves querysets from PostgreSQL tables. Relations between tables are declared in a
// Schema and traversed with joins.
package sqlstore

import (
	"fmt"
	"sort"
)

const defaultPrimaryKey = "id"

// Relation joins Table on Table.References = Column of the declaring table. A foreign key declares a
// to-one relation (Column "user_id", References "id"), a reverse foreign key a to-many relation
// (Column "id", References "rating_id").
type Relation struct {
	Table      string `mapstructure:"table" validate:"required"`
	Column     string `mapstructure:"column" validate:"required"`
	References string `mapstructure:"references"`
}

type Table struct {
	Name       string              `mapstructure:"name" validate:"required"`
	Columns    []string            `mapstructure:"columns" validate:"required,min=1"`
	PrimaryKey string              `mapstructure:"primary_key"`
	Relations  map[string]Relation `mapstructure:"relations" validate:"dive"`
}

func (t Table) HasColumn(name string) bool {
	for _, column := range t.Columns {
		if column == name {
			return true
		}
	}
	return false
}

func (t Table) primaryKey() string {
	if t.PrimaryKey == "" {
		return defaultPrimaryKey
	}
	return t.PrimaryKey
}

func (r Relation) references(target Table) string {
	if r.References == "" {
		return target.primaryKey()
	}
	return r.References
}

// Schema maps table names to their definition.
type Schema map[string]Table

func NewSchema(tables ...Table) Schema {
	schema := make(Schema, len(tables))
	for _, table := range tables {
		schema[table.Name] = table
	}
	return schema
}

// Validate checks that every relation points to a declared table and existing columns.
func (s Schema) Validate() error {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table := s[name]
		for relationName, relation := range table.Relations {
			if table.HasColumn(relationName) {
				return fmt.Errorf("relation %s of table %s clashes with a column", relationName, name)
			}
			target, ok := s[relation.Table]
			if !ok {
				return fmt.Errorf("relation %s of table %s references unknown table %s", relationName, name,
					relation.Table)
			}
			if !table.HasColumn(relation.Column) {
				return fmt.Errorf("relation %s of table %s uses unknown column %s", relationName, name,
					relation.Column)
			}
			if !target.HasColumn(relation.references(target)) {
				return fmt.Errorf("relation %s of table %s references unknown column %s.%s", relationName, name,
					relation.Table, relation.references(target))
			}
		}
	}
	return nil
}
