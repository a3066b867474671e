package filters

// Resource is the filtering contract of an API resource: the fields it exposes to clients, the storage
// name behind each field when it differs, and the whitelist of filterable fields.
type Resource struct {
	Fields  []string
	Sources map[string]string
	Filters Whitelist
}

func (r Resource) HasField(name string) bool {
	for _, field := range r.Fields {
		if field == name {
			return true
		}
	}
	return false
}

// StorageName returns the storage field behind a resource field, defaulting to the field name.
func (r Resource) StorageName(field string) string {
	if source, ok := r.Sources[field]; ok && source != "" {
		return source
	}
	return field
}

// Filterable reports whether filtering is enabled for the resource at all.
func (r Resource) Filterable() bool {
	return len(r.Filters) > 0
}
