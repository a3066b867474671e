package filters

import (
	"fmt"
	"strings"

	"github.com/datastax/data-api-filters/types"
)

type PolicyKind int

const (
	// LookupsPolicy allows an explicit list of lookups on the field itself.
	LookupsPolicy PolicyKind = iota
	// AllPolicy allows any lookup but no relation traversal.
	AllPolicy
	// AllWithRelationsPolicy allows any lookup, including across relationships.
	AllWithRelationsPolicy
)

const (
	allLiteral              = "all"
	allWithRelationsLiteral = "all_with_relations"
)

// Policy is the whitelist entry of a single resource field.
type Policy struct {
	kind    PolicyKind
	lookups []string
}

var (
	All              = Policy{kind: AllPolicy}
	AllWithRelations = Policy{kind: AllWithRelationsPolicy}
)

// Lookups builds an explicit policy. Order is kept for display, duplicates are dropped.
func Lookups(lookups ...string) Policy {
	seen := make(map[string]bool, len(lookups))
	list := make([]string, 0, len(lookups))
	for _, lookup := range lookups {
		if !seen[lookup] {
			seen[lookup] = true
			list = append(list, lookup)
		}
	}
	return Policy{kind: LookupsPolicy, lookups: list}
}

func (p Policy) Kind() PolicyKind {
	return p.kind
}

// AllowedLookups returns the explicit lookup list, nil for All and AllWithRelations.
func (p Policy) AllowedLookups() []string {
	if p.kind != LookupsPolicy {
		return nil
	}
	return append([]string(nil), p.lookups...)
}

func (p Policy) Allows(lookup string) bool {
	if p.kind != LookupsPolicy {
		return true
	}
	for _, allowed := range p.lookups {
		if allowed == lookup {
			return true
		}
	}
	return false
}

func (p Policy) AllowsRelations() bool {
	return p.kind == AllWithRelationsPolicy
}

func (p Policy) String() string {
	switch p.kind {
	case AllPolicy:
		return allLiteral
	case AllWithRelationsPolicy:
		return allWithRelationsLiteral
	}
	return "[" + strings.Join(p.lookups, ",") + "]"
}

// ParsePolicy reads a policy from configuration: "all", "all_with_relations" (any case) or a list of
// lookup names.
func ParsePolicy(value interface{}) (Policy, error) {
	switch value := value.(type) {
	case Policy:
		return value, nil
	case string:
		switch strings.ToLower(value) {
		case allLiteral:
			return All, nil
		case allWithRelationsLiteral:
			return AllWithRelations, nil
		}
		return Policy{}, fmt.Errorf("invalid filter policy: %s", value)
	case []string:
		return parseLookupList(value)
	case []interface{}:
		names := make([]string, len(value))
		for i, item := range value {
			name, ok := item.(string)
			if !ok {
				return Policy{}, fmt.Errorf("invalid lookup in filter policy: %v", item)
			}
			names[i] = name
		}
		return parseLookupList(names)
	}
	return Policy{}, fmt.Errorf("invalid filter policy type: %T", value)
}

func parseLookupList(names []string) (Policy, error) {
	for _, name := range names {
		if !types.IsKnownLookup(name) {
			return Policy{}, fmt.Errorf("invalid lookup in filter policy: %s", name)
		}
	}
	return Lookups(names...), nil
}

// Whitelist maps resource field names to their filter policy.
type Whitelist map[string]Policy
