package model

type Medicine struct {
	Name            string  `json:"name"`
	SaltComposition string  `json:"salt_composition"`
	Description     string  `json:"description,omitempty"`
	Manufacturer    string  `json:"manufacturer,omitempty"`
	Price           float64 `json:"price"`
	Alternatives    string  `json:"alternatives"`
	SideEffects     string  `json:"side_effects,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Query          string     `json:"query"`
	QueryType      string     `json:"query_type"`
	Recommendation string     `json:"recommendation"`
	Matches        []Medicine `json:"matches,omitempty"`
	IsFallback     bool       `json:"is_fallback,omitempty"`
	Timestamp      string     `json:"timestamp"`
}

type GetMedicineRequest struct {
	MedicineName string `uri:"medicine_name"`
}

type GetMedicineResponse struct {
	Medicine       Medicine `json:"medicine"`
	Recommendation string   `json:"recommendation,omitempty"`
}

type GetAlternativesRequest struct {
	Medicines []string `json:"medicines"`
}

type AlternativeResult struct {
	Medicine     string   `json:"medicine"`
	Alternatives []string `json:"alternatives,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type GetAlternativesResponse struct {
	Results []AlternativeResult `json:"results"`
}
