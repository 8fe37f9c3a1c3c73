package model

type GetHealthRequest struct{}

type GetHealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`

	Recommender string `json:"recommender"`
	Database    string `json:"database"`
	SearchIndex string `json:"search_index"`
}

type QueriedMedicine struct {
	Name    string `json:"name"`
	Queries int64  `json:"queries"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	TotalMedicines      int64             `json:"total_medicines"`
	TotalKeys           int64             `json:"total_keys"`
	ActiveKeys          int64             `json:"active_keys"`
	RequestsToday       int64             `json:"requests_today"`
	TopQueried          []QueriedMedicine `json:"top_queried,omitempty"`
	UniqueCompositions  int64             `json:"unique_compositions"`
	UniqueManufacturers int64             `json:"unique_manufacturers"`
}
