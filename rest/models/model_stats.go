package models

type Stats struct {
	Requests int64 `json:"requests"`
	Applied  int64 `json:"applied"`
	FellBack int64 `json:"fellBack"`
	Disabled int64 `json:"disabled"`
	Errors   int64 `json:"errors"`
}
