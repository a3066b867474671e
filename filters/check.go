package filters

import "errors"

var (
	ErrUnknownField        = errors.New("field is not exposed by the resource")
	ErrFieldNotFilterable  = errors.New("field is not filterable")
	ErrLookupNotAllowed    = errors.New("lookup is not allowed for field")
	ErrRelationsNotAllowed = errors.New("relation lookups are not allowed for field")
)

// CheckField rejects expressions on fields the resource does not expose.
func CheckField(expr Expression, resource Resource) error {
	if !resource.HasField(expr.Field) {
		return ErrUnknownField
	}
	return nil
}

// CheckFiltering authorizes expr against the resource whitelist and returns the storage path:
// the field's storage name followed by any relation segments.
func CheckFiltering(expr Expression, resource Resource) ([]string, error) {
	policy, ok := resource.Filters[expr.Field]
	if !ok {
		return nil, ErrFieldNotFilterable
	}

	if !policy.Allows(expr.Lookup) {
		return nil, ErrLookupNotAllowed
	}

	// Relations need an explicit opt-in even when every lookup is allowed on the field
	if len(expr.Relations) > 0 && !policy.AllowsRelations() {
		return nil, ErrRelationsNotAllowed
	}

	// TODO: resolve relation segments against the related resource fields instead of passing them through
	return append([]string{resource.StorageName(expr.Field)}, expr.Relations...), nil
}

// Resolve runs every check in order and returns the storage path of an accepted expression.
func Resolve(expr Expression, resource Resource) ([]string, error) {
	if err := CheckField(expr, resource); err != nil {
		return nil, err
	}
	return CheckFiltering(expr, resource)
}
