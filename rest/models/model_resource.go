package models

// Resource describes a resource and what clients may filter it by
type Resource struct {
	Name string `json:"name"`

	Fields []string `json:"fields"`

	// Filter policy per field: "all", "all_with_relations" or the list of allowed lookups
	Filters map[string]string `json:"filters,omitempty"`

	// Query parameters handled by method filters
	Params []string `json:"params,omitempty"`
}

type Resources struct {
	Resources []Resource `json:"resources"`
}
