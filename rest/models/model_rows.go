package models

// Rows is the response of a rows listing. Status reports how the filters of the request were handled:
// "applied", "fell-back" or "disabled".
type Rows struct {
	Rows    []map[string]interface{} `json:"rows"`
	Count   int                      `json:"count"`
	Status  string                   `json:"status"`
	Filters []string                 `json:"filters,omitempty"`
}
